package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRecover_WithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "Frame.Subset")
		panic("index out of range [7] with length 3")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.Operation != "Frame.Subset" {
		t.Errorf("Expected operation 'Frame.Subset', got '%s'", panicErr.Operation)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}

	expectedMsg := "panic in Frame.Subset: index out of range [7] with length 3"
	if panicErr.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, panicErr.Error())
	}
}

func TestRecover_WithoutPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "Frame.Subset")
		return nil
	}

	if err := testFunc(); err != nil {
		t.Fatalf("Expected no error when no panic occurs, got: %v", err)
	}
}

func TestRecover_WithExistingError(t *testing.T) {
	originalErr := fmt.Errorf("original error")

	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		err = originalErr
		panic("panic after error")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic with existing error, got nil")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "panic in TestOperation") {
		t.Errorf("Error message should contain panic info: %s", errMsg)
	}
	if !strings.Contains(errMsg, "original error") {
		t.Errorf("Error message should contain original error: %s", errMsg)
	}

	// 元のエラーまで辿れること
	if !errors.Is(err, originalErr) {
		t.Error("Should be able to identify original error with errors.Is")
	}
}

func TestSafeExecute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		if err := SafeExecute("op", func() error { return nil }); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
	})

	t.Run("function error", func(t *testing.T) {
		originalErr := fmt.Errorf("function error")
		err := SafeExecute("op", func() error { return originalErr })
		if err != originalErr {
			t.Fatalf("Expected original error, got: %v", err)
		}
	})

	t.Run("panic", func(t *testing.T) {
		err := SafeExecute("op", func() error { panic("boom") })
		var panicErr *PanicError
		if !errors.As(err, &panicErr) {
			t.Fatalf("Expected PanicError, got %T", err)
		}
		if panicErr.PanicValue != "boom" {
			t.Errorf("Expected panic value 'boom', got '%v'", panicErr.PanicValue)
		}
	})
}

func TestPanicError_Unwrap(t *testing.T) {
	// 文字列のpanicはラップしない
	if NewPanicError("op", "text").Unwrap() != nil {
		t.Error("PanicError.Unwrap() should return nil for non-error values")
	}

	// errorのpanicは元のエラーを返す
	inner := fmt.Errorf("inner")
	if !errors.Is(NewPanicError("op", inner), inner) {
		t.Error("PanicError should unwrap to the panicked error")
	}

	str := NewPanicError("TestOp", "v").String()
	if !strings.Contains(str, "Stack trace:") {
		t.Error("String() should include stack trace information")
	}
}

func TestRecover_DifferentPanicTypes(t *testing.T) {
	testCases := []struct {
		name          string
		panicValue    interface{}
		expectedValue interface{}
	}{
		{"string panic", "string panic", "string panic"},
		{"int panic", 42, 42},
		{"error panic", fmt.Errorf("error as panic"), fmt.Errorf("error as panic")},
		{"nil panic", nil, "panic called with nil argument"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testFunc := func() (err error) {
				defer Recover(&err, "TypeTest")
				panic(tc.panicValue)
			}

			err := testFunc()
			var panicErr *PanicError
			if !errors.As(err, &panicErr) {
				t.Fatalf("Expected PanicError, got %T", err)
			}
			if fmt.Sprintf("%v", panicErr.PanicValue) != fmt.Sprintf("%v", tc.expectedValue) {
				t.Errorf("Expected panic value %v, got %v", tc.expectedValue, panicErr.PanicValue)
			}
		})
	}
}

func BenchmarkRecover_NoPanic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		func() (err error) {
			defer Recover(&err, "BenchmarkOp")
			return nil
		}()
	}
}
