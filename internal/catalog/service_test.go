package catalog

import (
	"context"
	"errors"
	"testing"
)

func newTestService() *Service {
	return NewService(NewMemStore())
}

func TestCreateAndGetVehicle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	in := VehicleInput{
		Name:        "Sedan",
		Type:        "car",
		Description: "4-seat sedan",
		PricePerDay: 100,
		ImageRef:    "abc123_sedan.jpg",
	}
	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != in.Name || got.Type != in.Type || got.Description != in.Description ||
		got.PricePerDay != in.PricePerDay || got.ImageRef != in.ImageRef {
		t.Fatalf("roundtrip mismatch: %#v", got)
	}
}

func TestCreateVehicleValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, VehicleInput{Name: "X", PricePerDay: -1}); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if _, err := svc.Create(ctx, VehicleInput{Name: "  ", PricePerDay: 10}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestListVehiclesCreationOrder(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	names := []string{"A", "B", "C"}
	for _, n := range names {
		if _, err := svc.Create(ctx, VehicleInput{Name: n, PricePerDay: 1}); err != nil {
			t.Fatalf("Create %s: %v", n, err)
		}
	}

	got, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != len(names) {
		t.Fatalf("expected %d vehicles, got %d", len(names), len(got))
	}
	for i, n := range names {
		if got[i].Name != n {
			t.Fatalf("order mismatch at %d: want %s got %s", i, n, got[i].Name)
		}
	}
}

func TestUpdateVehicleKeepsImageWhenEmpty(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	v, err := svc.Create(ctx, VehicleInput{Name: "Van", PricePerDay: 50, ImageRef: "ref_van.jpg"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(ctx, v.ID, VehicleInput{Name: "Van XL", Type: "van", PricePerDay: 80})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Van XL" || updated.PricePerDay != 80 {
		t.Fatalf("update not applied: %#v", updated)
	}
	if updated.ImageRef != "ref_van.jpg" {
		t.Fatalf("expected image to be kept, got %q", updated.ImageRef)
	}

	if _, err := svc.Update(ctx, "no-such-id", VehicleInput{Name: "X", PricePerDay: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteVehicle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	v, err := svc.Create(ctx, VehicleInput{Name: "Bike", PricePerDay: 10})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, v.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, v.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, v.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
