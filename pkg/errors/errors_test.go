package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, CodeDatabaseError, "数据库操作失败")

	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to cause")
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", err.HTTPStatus)
	}
}

func TestCodeToHTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeInvalidRule, http.StatusBadRequest},
		{CodeInvalidTimeRange, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeScheduleConflict, http.StatusConflict},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := New(c.code, "x").HTTPStatus; got != c.want {
			t.Errorf("code %s: expected %d, got %d", c.code, c.want, got)
		}
	}
}

func TestIs(t *testing.T) {
	err := ScheduleConflict("emp1", "2026-01-05")
	if !Is(err, CodeScheduleConflict) {
		t.Error("Is should match the code")
	}
	if Is(err, CodeNotFound) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain"), CodeScheduleConflict) {
		t.Error("plain error should not match")
	}

	// 包装后仍可识别
	wrapped := fmt.Errorf("外层: %w", err)
	if !Is(wrapped, CodeScheduleConflict) {
		t.Error("Is should match through wrapping")
	}
}

func TestGetCode(t *testing.T) {
	if GetCode(NotFound("员工", "e1")) != CodeNotFound {
		t.Error("GetCode mismatch")
	}
	if GetCode(fmt.Errorf("plain")) != CodeUnknown {
		t.Error("plain error should yield CodeUnknown")
	}
}
