package config

import (
	"errors"
	"sync"
	"testing"
)

// stubSource returns canned configs or errors per call.
type stubSource struct {
	mu      sync.Mutex
	configs []*Config
	errs    []error
	calls   int
}

func (s *stubSource) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return s.configs[i], nil
}

func validConfig(t *testing.T, rate int) *Config {
	t.Helper()
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.UpdateRate = rate
	cfg.computeDerived()
	return cfg
}

func TestStoreInitialLoadFailure(t *testing.T) {
	src := &stubSource{errs: []error{errors.New("boom")}, configs: []*Config{nil}}
	if _, err := NewStore(src); err == nil {
		t.Fatalf("initial load failure must surface")
	}
}

func TestReloadFailureKeepsPrevious(t *testing.T) {
	first := validConfig(t, 144)
	src := &stubSource{
		configs: []*Config{first, nil},
		errs:    []error{nil, errors.New("malformed yaml")},
	}
	store, err := NewStore(src)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Reload(); err == nil {
		t.Fatalf("reload should report the failure")
	}
	if store.Current() != first {
		t.Errorf("failed reload must keep the previous config active")
	}
}

func TestReloadSwapsWholeValue(t *testing.T) {
	first := validConfig(t, 144)
	second := validConfig(t, 60)
	src := &stubSource{configs: []*Config{first, second}}

	store, err := NewStore(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err != nil {
		t.Fatal(err)
	}
	if store.Current() != second {
		t.Errorf("reload should publish the new config")
	}
}

func TestReplaceValidates(t *testing.T) {
	first := validConfig(t, 144)
	store, err := NewStore(&stubSource{configs: []*Config{first}})
	if err != nil {
		t.Fatal(err)
	}

	bad := first.Clone()
	bad.Camera.PanSmoothing = 1.5
	if err := store.Replace(bad); err == nil {
		t.Fatalf("invalid replacement must be rejected")
	}
	if store.Current() != first {
		t.Errorf("rejected replacement must keep the previous config")
	}
}

// TestSnapshotAtomicity drives concurrent reloads against readers and
// checks that every observed snapshot is internally consistent: a tick
// that grabbed Current() can never see fields from two different configs.
// UpdateRate and SmoothingReferenceRate are varied in lockstep as the
// consistency marker. Run with -race.
func TestSnapshotAtomicity(t *testing.T) {
	base := validConfig(t, 1000)
	base.SmoothingReferenceRate = 1000
	store, err := NewStore(&stubSource{configs: []*Config{base}})
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5000; i++ {
			rate := 60 + i%200
			cfg := base.Clone()
			cfg.UpdateRate = rate
			cfg.SmoothingReferenceRate = rate
			if err := store.Replace(cfg); err != nil {
				t.Errorf("replace: %v", err)
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				cfg := store.Current()
				if cfg.UpdateRate != cfg.SmoothingReferenceRate {
					t.Errorf("torn snapshot: update_rate %d vs reference %d",
						cfg.UpdateRate, cfg.SmoothingReferenceRate)
					return
				}
			}
		}()
	}
	<-done
	wg.Wait()
}
