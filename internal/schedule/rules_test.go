package schedule

import (
	"testing"
	"time"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
)

func TestValidSlotsChronologicalOrder(t *testing.T) {
	for _, typ := range []models.AppointmentType{
		models.TypeOilChange,
		models.TypeQuickService,
		models.TypeMaintenance,
		models.TypeManualWarrantyReview,
		models.TypeAutecoWarranty,
	} {
		slots := ValidSlots(typ)
		if len(slots) == 0 {
			t.Fatalf("%s: expected bookable slots", typ)
		}
		for i := 1; i < len(slots); i++ {
			if slots[i-1] >= slots[i] {
				t.Fatalf("%s: slots out of order: %s >= %s", typ, slots[i-1], slots[i])
			}
		}
	}
}

func TestValidSlotsEmptyForIndirectTypes(t *testing.T) {
	if got := ValidSlots(models.TypeRework); len(got) != 0 {
		t.Fatalf("rework slots = %v, want empty", got)
	}
	if got := ValidSlots(models.TypeUnplanned); len(got) != 0 {
		t.Fatalf("unplanned slots = %v, want empty", got)
	}
}

func TestOilChangeSlotsAreThirtyMinutes(t *testing.T) {
	if Duration(models.TypeOilChange) != 30*time.Minute {
		t.Fatalf("oil change duration = %v, want 30m", Duration(models.TypeOilChange))
	}
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	start, end, err := SlotWindow(date, "08:00", models.TypeOilChange)
	if err != nil {
		t.Fatalf("SlotWindow error: %v", err)
	}
	if end.Sub(start) != 30*time.Minute {
		t.Fatalf("window = %v, want 30m", end.Sub(start))
	}
	if !end.After(start) {
		t.Fatalf("end must be after start")
	}
}

func TestIsValidSlot(t *testing.T) {
	if !IsValidSlot(models.TypeQuickService, "09:00") {
		t.Fatalf("09:00 should be valid for quick service")
	}
	if IsValidSlot(models.TypeQuickService, "09:30") {
		t.Fatalf("09:30 should not be valid for quick service")
	}
	if IsValidSlot(models.TypeRework, "09:00") {
		t.Fatalf("rework should have no valid slots")
	}
}

func TestBrandEligibility(t *testing.T) {
	cases := []struct {
		typ   models.AppointmentType
		brand string
		want  bool
	}{
		{models.TypeAutecoWarranty, "Auteco", true},
		{models.TypeAutecoWarranty, "AUTECO", true},
		{models.TypeAutecoWarranty, "  auteco ", true},
		{models.TypeAutecoWarranty, "Yamaha", false},
		{models.TypeAutecoWarranty, "AUTECO S.A.", false},
		{models.TypeManualWarrantyReview, "Bajaj", false},
		{models.TypeOilChange, "Yamaha", true},
		{models.TypeMaintenance, "Honda", true},
	}
	for _, c := range cases {
		if got := IsBrandEligible(c.typ, c.brand); got != c.want {
			t.Fatalf("IsBrandEligible(%s, %q) = %v, want %v", c.typ, c.brand, got, c.want)
		}
	}
}

func TestUserBookable(t *testing.T) {
	if IsUserBookable(models.TypeUnplanned) {
		t.Fatalf("unplanned must not be user bookable")
	}
	if IsUserBookable(models.TypeRework) {
		t.Fatalf("rework must not be user bookable")
	}
	if !IsUserBookable(models.TypeOilChange) {
		t.Fatalf("oil change must be user bookable")
	}
}

func TestReceptionDeadlineBySession(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	morning := ReceptionDeadline(date, "08:30")
	if morning.Hour() != 9 || morning.Minute() != 30 {
		t.Fatalf("morning deadline = %v, want 09:30", morning)
	}
	afternoon := ReceptionDeadline(date, "14:00")
	if afternoon.Hour() != 15 || afternoon.Minute() != 30 {
		t.Fatalf("afternoon deadline = %v, want 15:30", afternoon)
	}
}

func TestLunchBreakOverlap(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	mk := func(clock string) time.Time {
		v, err := At(date, clock)
		if err != nil {
			t.Fatalf("At(%s): %v", clock, err)
		}
		return v
	}

	if !inLunchBreak(mk("12:00"), mk("12:30")) {
		t.Fatalf("12:00-12:30 should hit lunch")
	}
	if !inLunchBreak(mk("11:30"), mk("12:30")) {
		t.Fatalf("11:30-12:30 should hit lunch")
	}
	if inLunchBreak(mk("11:00"), mk("12:00")) {
		t.Fatalf("11:00-12:00 ends at lunch start, no overlap")
	}
	if inLunchBreak(mk("13:00"), mk("14:00")) {
		t.Fatalf("13:00-14:00 starts at lunch end, no overlap")
	}
}

func TestSlotTablesAvoidLunch(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	for typ := range rules {
		for _, start := range ValidSlots(typ) {
			s, e, err := SlotWindow(date, start, typ)
			if err != nil {
				t.Fatalf("SlotWindow(%s, %s): %v", typ, start, err)
			}
			if inLunchBreak(s, e) {
				t.Fatalf("%s slot %s crosses the lunch blackout", typ, start)
			}
		}
	}
}
