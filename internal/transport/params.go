package transport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("%s must be an integer, got %q", name, raw)
	}
	return n, nil
}

func yearWeek(r *http.Request) (int, int, error) {
	year, err := intParam(r, "year")
	if err != nil {
		return 0, 0, err
	}
	week, err := intParam(r, "week")
	if err != nil {
		return 0, 0, err
	}
	return year, week, nil
}

func yearMonth(r *http.Request) (int, int, error) {
	year, err := intParam(r, "year")
	if err != nil {
		return 0, 0, err
	}
	month, err := intParam(r, "month")
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, badRequest("%s must be a non-negative integer", name)
	}
	return n, nil
}
