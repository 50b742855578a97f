package anchorcfg

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type validatorFunc func() error

func (v validatorFunc) Validate() error {
	return v()
}

func TestHealthCheckConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*HealthCheckConfig)
		valid  bool
	}{
		{
			name:   "default",
			modify: func(*HealthCheckConfig) {},
			valid:  true,
		},
		{
			name: "disabled ignores timings",
			modify: func(h *HealthCheckConfig) {
				h.DiskCheck.Attempts = 0
				h.DiskCheck.Interval = time.Second
			},
			valid: true,
		},
		{
			name: "interval too short",
			modify: func(h *HealthCheckConfig) {
				h.DiskCheck.Interval = time.Second
			},
		},
		{
			name: "timeout too short",
			modify: func(h *HealthCheckConfig) {
				h.DiskCheck.Timeout = time.Millisecond
			},
		},
		{
			name: "backoff too short",
			modify: func(h *HealthCheckConfig) {
				h.DiskCheck.Backoff = time.Millisecond
			},
		},
		{
			name: "ratio out of range",
			modify: func(h *HealthCheckConfig) {
				h.DiskCheck.RequiredRemaining = 1
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultHealthCheckConfig()
			test.modify(cfg)

			err := Validate(cfg)
			if test.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestValidateStopsAtFirstError(t *testing.T) {
	t.Parallel()

	var calls int
	ok := validatorFunc(func() error {
		calls++
		return nil
	})
	fail := validatorFunc(func() error {
		calls++
		return errTest
	})

	require.ErrorIs(t, Validate(ok, fail, ok), errTest)
	require.Equal(t, 2, calls)
}

var errTest = errors.New("test")
