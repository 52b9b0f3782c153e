package shared

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("hello", "key", "value")

	out := buf.String()
	if out == "" {
		t.Fatal("expected log output")
	}
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Errorf("expected message in output, got %s", out)
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty ids")
	}
	if a == b {
		t.Error("expected distinct ids")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid length 36, got %d", len(a))
	}
}

func TestGenerateState(t *testing.T) {
	t.Run("Requested Length", func(t *testing.T) {
		for _, length := range []int{1, 15, 16, 32} {
			state, err := GenerateState(length)
			if err != nil {
				t.Fatalf("expected no error for length %d, got %v", length, err)
			}
			if len(state) != length {
				t.Errorf("expected length %d, got %d", length, len(state))
			}
		}
	})

	t.Run("Distinct Values", func(t *testing.T) {
		a, _ := GenerateState(16)
		b, _ := GenerateState(16)
		if a == b {
			t.Error("expected distinct states")
		}
	})

	t.Run("Invalid Length", func(t *testing.T) {
		if _, err := GenerateState(0); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if _, err := GenerateState(-4); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
