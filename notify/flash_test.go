package notify

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func carry(t *testing.T, set func(http.ResponseWriter)) *http.Request {
	t.Helper()
	w := httptest.NewRecorder()
	set(w)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestPop_ReturnsAndExpires(t *testing.T) {
	req := carry(t, func(w http.ResponseWriter) { Success(w, "Blog Created Successfully") })

	w := httptest.NewRecorder()
	n, ok := Pop(w, req)
	if !ok {
		t.Fatal("expected a notice")
	}
	if n.Kind != KindSuccess || n.Message != "Blog Created Successfully" {
		t.Fatalf("unexpected notice %+v", n)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected the flash cookie to be expired, got %+v", cookies)
	}
}

func TestPop_ErrorKindSurvivesSeparator(t *testing.T) {
	req := carry(t, func(w http.ResponseWriter) { Error(w, "a|b; c") })
	n, ok := Pop(httptest.NewRecorder(), req)
	if !ok || !n.IsError() || n.Message != "a|b; c" {
		t.Fatalf("unexpected notice %+v %v", n, ok)
	}
}

func TestPop_NoCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := Pop(httptest.NewRecorder(), req); ok {
		t.Fatal("expected no notice")
	}
}

func TestPop_RejectsUnknownKind(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "weird%7Chello"})
	if _, ok := Pop(httptest.NewRecorder(), req); ok {
		t.Fatal("unknown kind accepted")
	}
}
