package store

import (
	"errors"
	"testing"
	"time"

	"otledger/models"
)

func TestCreateOvertimeRejectsNonPositiveMinutes(t *testing.T) {
	s := setupStore(t)
	group := seedGroup(t, s, "Engineering")
	user := seedUser(t, s, "john", models.UserTypeCommon, group.ID)

	for _, minutes := range []int{0, -30} {
		_, err := s.CreateOvertime(user.ID, mustDate(t, "2024-01-10"), minutes, "late deploy")
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("minutes=%d: expected ValidationError, got %v", minutes, err)
		}
	}

	count, err := s.CountOvertime()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty ledger after rejected creates, got %d rows", count)
	}
}

func TestCreateOvertimeMinimumDurationIsRetrievable(t *testing.T) {
	s := setupStore(t)
	group := seedGroup(t, s, "Engineering")
	user := seedUser(t, s, "john", models.UserTypeCommon, group.ID)

	record, err := s.CreateOvertime(user.ID, mustDate(t, "2024-01-10"), 1, "quick fix")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if record.CreatedAt.IsZero() {
		t.Fatal("expected server-assigned creation timestamp")
	}

	records, err := s.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].Minutes != 1 {
		t.Fatalf("expected one record with minutes=1, got %+v", records)
	}
}

func TestCreateOvertimeRejectsEmptyDescription(t *testing.T) {
	s := setupStore(t)
	group := seedGroup(t, s, "Engineering")
	user := seedUser(t, s, "john", models.UserTypeCommon, group.ID)

	_, err := s.CreateOvertime(user.ID, mustDate(t, "2024-01-10"), 60, "")
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateOvertimeUnknownUser(t *testing.T) {
	s := setupStore(t)

	_, err := s.CreateOvertime(999, mustDate(t, "2024-01-10"), 60, "ghost work")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateOvertimeFutureDatePolicy(t *testing.T) {
	s := setupStore(t)
	group := seedGroup(t, s, "Engineering")
	user := seedUser(t, s, "john", models.UserTypeCommon, group.ID)

	s.Now = func() time.Time { return mustDate(t, "2024-01-10").Add(15 * time.Hour) }

	_, err := s.CreateOvertime(user.ID, mustDate(t, "2024-01-11"), 60, "planned work")
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for future date, got %v", err)
	}

	// Same-day entries are never future.
	if _, err := s.CreateOvertime(user.ID, mustDate(t, "2024-01-10"), 60, "today"); err != nil {
		t.Fatalf("same-day create: %v", err)
	}

	s.AllowFutureDates = true
	if _, err := s.CreateOvertime(user.ID, mustDate(t, "2024-01-11"), 60, "planned work"); err != nil {
		t.Fatalf("future create with AllowFutureDates: %v", err)
	}
}

func TestListForUserOrdersByDateDescending(t *testing.T) {
	s := setupStore(t)
	group := seedGroup(t, s, "Engineering")
	user := seedUser(t, s, "john", models.UserTypeCommon, group.ID)

	for _, day := range []string{"2024-01-05", "2024-01-12", "2024-01-08"} {
		if _, err := s.CreateOvertime(user.ID, mustDate(t, day), 60, "work on "+day); err != nil {
			t.Fatalf("create %s: %v", day, err)
		}
	}

	records, err := s.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"2024-01-12", "2024-01-08", "2024-01-05"}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i, day := range want {
		if got := records[i].Date.Format("2006-01-02"); got != day {
			t.Fatalf("position %d: expected %s, got %s", i, day, got)
		}
	}
}

func TestDeleteOvertimeMissingIDLeavesLedgerUnchanged(t *testing.T) {
	s := setupStore(t)
	group := seedGroup(t, s, "Engineering")
	user := seedUser(t, s, "john", models.UserTypeCommon, group.ID)

	if _, err := s.CreateOvertime(user.ID, mustDate(t, "2024-01-10"), 90, "deploy"); err != nil {
		t.Fatalf("create: %v", err)
	}

	before, err := s.CountOvertime()
	if err != nil {
		t.Fatalf("count: %v", err)
	}

	if err := s.DeleteOvertime(4242); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	after, err := s.CountOvertime()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if before != after {
		t.Fatalf("ledger changed on failed delete: %d -> %d", before, after)
	}
}

func TestListForGroupsInclusiveDateBounds(t *testing.T) {
	s := setupStore(t)
	group := seedGroup(t, s, "Engineering")
	user := seedUser(t, s, "john", models.UserTypeCommon, group.ID)

	days := []string{"2024-01-09", "2024-01-10", "2024-01-15", "2024-01-20", "2024-01-21"}
	for _, day := range days {
		if _, err := s.CreateOvertime(user.ID, mustDate(t, day), 30, "work"); err != nil {
			t.Fatalf("create %s: %v", day, err)
		}
	}

	from := mustDate(t, "2024-01-10")
	to := mustDate(t, "2024-01-20")
	records, err := s.ListForGroups([]uint{group.ID}, &from, &to)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records in [10th, 20th], got %d", len(records))
	}
	for _, record := range records {
		day := record.Date.Format("2006-01-02")
		if day < "2024-01-10" || day > "2024-01-20" {
			t.Fatalf("record outside inclusive range: %s", day)
		}
	}
}

func TestListForGroupsEmptyGroupSet(t *testing.T) {
	s := setupStore(t)

	records, err := s.ListForGroups(nil, nil, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty result, got %d records", len(records))
	}
}

func TestSummaryIncludesUsersWithoutOvertime(t *testing.T) {
	s := setupStore(t)
	group := seedGroup(t, s, "Engineering")
	john := seedUser(t, s, "john", models.UserTypeCommon, group.ID)
	seedUser(t, s, "jane", models.UserTypeCommon, group.ID)

	if _, err := s.CreateOvertime(john.ID, mustDate(t, "2024-01-10"), 90, "deploy"); err != nil {
		t.Fatalf("create: %v", err)
	}

	summaries, err := s.SummaryForGroups([]uint{group.ID}, nil, nil)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	totals := map[string]int{}
	for _, summary := range summaries {
		totals[summary.Username] = summary.TotalMinutes
		if summary.GroupName != "Engineering" {
			t.Fatalf("unexpected group name %q", summary.GroupName)
		}
	}
	if totals["john"] != 90 {
		t.Fatalf("expected john total 90, got %d", totals["john"])
	}
	if total, ok := totals["jane"]; !ok || total != 0 {
		t.Fatalf("expected jane present with zero total, got %d (present=%v)", total, ok)
	}
}

func TestSummaryDateBoundsApplyToJoin(t *testing.T) {
	s := setupStore(t)
	group := seedGroup(t, s, "Engineering")
	john := seedUser(t, s, "john", models.UserTypeCommon, group.ID)

	if _, err := s.CreateOvertime(john.ID, mustDate(t, "2024-01-05"), 60, "early"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateOvertime(john.ID, mustDate(t, "2024-02-05"), 45, "late"); err != nil {
		t.Fatalf("create: %v", err)
	}

	from := mustDate(t, "2024-02-01")
	to := mustDate(t, "2024-02-29")
	summaries, err := s.SummaryForGroups([]uint{group.ID}, &from, &to)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected john in summary even when filtered, got %d rows", len(summaries))
	}
	if summaries[0].TotalMinutes != 45 {
		t.Fatalf("expected filtered total 45, got %d", summaries[0].TotalMinutes)
	}
}
