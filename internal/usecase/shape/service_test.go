package shape

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/georef/internal/domain"
	domshape "github.com/kailas-cloud/georef/internal/domain/shape"
)

type mockRepo struct {
	getByIDFn      func(ctx context.Context, id int64) (*domshape.Shape, error)
	getByRefCodeFn func(ctx context.Context, code string) (*domshape.Shape, error)
	refCodeForIDFn func(ctx context.Context, id int64) (string, error)
	radiusSearchFn func(ctx context.Context, code string, radiusMiles float64, countryExact bool) ([]domshape.Shape, error)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domshape.Shape, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRepo) GetByRefCode(ctx context.Context, code string) (*domshape.Shape, error) {
	if m.getByRefCodeFn != nil {
		return m.getByRefCodeFn(ctx, code)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRepo) RefCodeForID(ctx context.Context, id int64) (string, error) {
	if m.refCodeForIDFn != nil {
		return m.refCodeForIDFn(ctx, id)
	}
	return "", domain.ErrNotFound
}

func (m *mockRepo) RadiusSearch(ctx context.Context, code string, radiusMiles float64, countryExact bool) ([]domshape.Shape, error) {
	if m.radiusSearchFn != nil {
		return m.radiusSearchFn(ctx, code, radiusMiles, countryExact)
	}
	return nil, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo) {
	t.Helper()
	mr := &mockRepo{}
	return New(mr), mr
}

func boston() *domshape.Shape {
	return &domshape.Shape{
		ID:      42,
		RefCode: "bos",
		Name:    "Boston, MA",
		RefData: domshape.RefData{Country: "US", Latitude: 42.3601, Longitude: -71.0589},
	}
}

// --- Fetch ---

func TestFetch_ByID(t *testing.T) {
	svc, mr := newTestService(t)

	mr.getByIDFn = func(_ context.Context, id int64) (*domshape.Shape, error) {
		if id != 42 {
			t.Errorf("expected id 42, got %d", id)
		}
		return boston(), nil
	}

	s, err := svc.Fetch(context.Background(), "42", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.RefCode != "bos" {
		t.Errorf("unexpected shape: %+v", s)
	}
}

func TestFetch_IDWinsOverCode(t *testing.T) {
	svc, mr := newTestService(t)

	mr.getByIDFn = func(_ context.Context, _ int64) (*domshape.Shape, error) {
		return boston(), nil
	}
	mr.getByRefCodeFn = func(_ context.Context, _ string) (*domshape.Shape, error) {
		t.Fatal("ref code lookup should not run when an id is supplied")
		return nil, nil
	}

	if _, err := svc.Fetch(context.Background(), "42", "other"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetch_ByRefCode(t *testing.T) {
	svc, mr := newTestService(t)

	var gotCode string
	mr.getByRefCodeFn = func(_ context.Context, code string) (*domshape.Shape, error) {
		gotCode = code
		return boston(), nil
	}

	if _, err := svc.Fetch(context.Background(), "", "AbC"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Case normalization happens in the repository.
	if gotCode != "AbC" {
		t.Errorf("unexpected code: %s", gotCode)
	}
}

func TestFetch_NeitherIdentifier(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Fetch(context.Background(), "", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetch_UnparseableID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Fetch(context.Background(), "abc", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetch_EngineMiss(t *testing.T) {
	svc, mr := newTestService(t)

	mr.getByIDFn = func(_ context.Context, _ int64) (*domshape.Shape, error) {
		return nil, domain.ErrNotFound
	}

	_, err := svc.Fetch(context.Background(), "7", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// --- Radius ---

func TestRadius_IDResolvesToCode(t *testing.T) {
	svc, mr := newTestService(t)

	mr.refCodeForIDFn = func(_ context.Context, id int64) (string, error) {
		if id != 5 {
			t.Errorf("expected id 5, got %d", id)
		}
		return "bos", nil
	}

	var gotCode string
	var gotRadius float64
	mr.radiusSearchFn = func(_ context.Context, code string, radiusMiles float64, _ bool) ([]domshape.Shape, error) {
		gotCode, gotRadius = code, radiusMiles
		return []domshape.Shape{*boston()}, nil
	}

	shapes, err := svc.Radius(context.Background(), "5", "superseded", 10, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shapes) != 1 {
		t.Fatalf("expected 1 shape, got %d", len(shapes))
	}
	if gotCode != "bos" {
		t.Errorf("resolved code should supersede the supplied one, got %q", gotCode)
	}
	if gotRadius != 10 {
		t.Errorf("expected radius 10, got %f", gotRadius)
	}
}

func TestRadius_TooSmallWinsOverValidShape(t *testing.T) {
	svc, mr := newTestService(t)

	mr.refCodeForIDFn = func(_ context.Context, _ int64) (string, error) {
		return "bos", nil
	}
	mr.radiusSearchFn = func(_ context.Context, _ string, _ float64, _ bool) ([]domshape.Shape, error) {
		t.Fatal("engine should not be queried when the radius is invalid")
		return nil, nil
	}

	_, err := svc.Radius(context.Background(), "5", "", 0, false)
	if !errors.Is(err, domain.ErrRadiusTooSmall) {
		t.Errorf("expected ErrRadiusTooSmall, got %v", err)
	}
}

func TestRadius_UnresolvableID(t *testing.T) {
	svc, mr := newTestService(t)

	mr.refCodeForIDFn = func(_ context.Context, _ int64) (string, error) {
		return "", domain.ErrNotFound
	}

	_, err := svc.Radius(context.Background(), "7", "ignored", 50, false)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRadius_UnparseableIDWithSmallRadius(t *testing.T) {
	svc, _ := newTestService(t)

	// The radius bound is checked before the code check even when the id
	// cannot be parsed.
	_, err := svc.Radius(context.Background(), "abc", "", 0, false)
	if !errors.Is(err, domain.ErrRadiusTooSmall) {
		t.Errorf("expected ErrRadiusTooSmall, got %v", err)
	}
}

func TestRadius_NoIdentifier(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Radius(context.Background(), "", "", 50, false)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRadius_ByRefCode(t *testing.T) {
	svc, mr := newTestService(t)

	var gotCode string
	var gotExact bool
	mr.radiusSearchFn = func(_ context.Context, code string, _ float64, countryExact bool) ([]domshape.Shape, error) {
		gotCode, gotExact = code, countryExact
		return []domshape.Shape{}, nil
	}

	shapes, err := svc.Radius(context.Background(), "", "bos", 50, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCode != "bos" || !gotExact {
		t.Errorf("unexpected engine call: code=%q exact=%v", gotCode, gotExact)
	}
	if shapes == nil || len(shapes) != 0 {
		t.Errorf("empty hit list should stay an empty slice, got %v", shapes)
	}
}

func TestRadius_RepoError(t *testing.T) {
	svc, mr := newTestService(t)

	mr.radiusSearchFn = func(_ context.Context, _ string, _ float64, _ bool) ([]domshape.Shape, error) {
		return nil, errors.New("engine down")
	}

	_, err := svc.Radius(context.Background(), "", "bos", 50, false)
	if err == nil {
		t.Fatal("expected error")
	}
}
