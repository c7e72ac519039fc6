package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/riskibarqy/sports-crm-import/internal/domain/batch"
	"github.com/riskibarqy/sports-crm-import/internal/domain/contact"
	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
	"github.com/riskibarqy/sports-crm-import/internal/domain/team"
	lockmemory "github.com/riskibarqy/sports-crm-import/internal/infrastructure/lock/memory"
	"github.com/riskibarqy/sports-crm-import/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sports-crm-import/internal/platform/id"
	"github.com/riskibarqy/sports-crm-import/internal/platform/logging"
)

type importFixture struct {
	service  *ImportService
	teams    *memory.TeamRepository
	contacts *memory.ContactRepository
	refs     *memory.ReferenceRepository
	locker   *lockmemory.Locker
}

func newImportFixture(t *testing.T, seed ...team.Team) importFixture {
	t.Helper()

	teams := memory.NewTeamRepository(id.NewSequenceGenerator("team"), seed...)
	contacts := memory.NewContactRepository(id.NewSequenceGenerator("contact"))
	refs := memory.NewReferenceRepository(id.NewSequenceGenerator("ref"))
	locker := lockmemory.NewLocker()
	logger := logging.NewNop()

	service := NewImportService(
		teams,
		contacts,
		NewReferenceResolver(refs, 2, logger),
		locker,
		nil,
		ImportConfig{DefaultBatchSize: 50, MaxBatchSize: 500, Costs: contact.CreditCosts{Email: 1, Phone: 2, LinkedIn: 1}},
		logger,
	)
	return importFixture{service: service, teams: teams, contacts: contacts, refs: refs, locker: locker}
}

func csvInput(lines ...string) ImportInput {
	return ImportInput{Data: strings.Join(lines, "\n"), FileType: "csv"}
}

func TestImportService_ProcessTeams_SkipsCaseInsensitiveDuplicate(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t)
	got, err := f.service.ProcessTeams(context.Background(), csvInput(
		"name,city,country",
		"Chelsea,London,England",
		"chelsea,london,ENGLAND",
	))
	if err != nil {
		t.Fatalf("process teams: %v", err)
	}
	if got.Successful != 1 || got.Skipped != 1 || len(got.Errors) != 0 {
		t.Fatalf("unexpected progress: %+v", got)
	}
	if !got.IsComplete || got.NextStartRow != 2 || got.TotalRows != 2 {
		t.Fatalf("unexpected cursor: next=%d complete=%v total=%d", got.NextStartRow, got.IsComplete, got.TotalRows)
	}
	if f.teams.Len() != 1 {
		t.Fatalf("expected 1 stored team, got %d", f.teams.Len())
	}
	if f.refs.Count(reference.KindCountry) != 1 || f.refs.Count(reference.KindCity) != 1 {
		t.Fatalf("expected one country and one city, got %d and %d",
			f.refs.Count(reference.KindCountry), f.refs.Count(reference.KindCity))
	}
}

func TestImportService_ProcessTeams_Idempotent(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t)
	input := csvInput(
		"name,sport,city,country",
		"Arsenal,Football,London,England",
		"Leeds United,Football,Leeds,England",
		"Lyon,Football,Lyon,",
	)

	first, err := f.service.ProcessTeams(context.Background(), input)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Successful != 3 {
		t.Fatalf("expected 3 created on first run, got %+v", first)
	}

	second, err := f.service.ProcessTeams(context.Background(), input)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Successful != 0 || second.Skipped != 3 {
		t.Fatalf("expected all rows skipped on second run, got %+v", second)
	}
	if f.teams.Len() != 3 {
		t.Fatalf("expected 3 stored teams, got %d", f.teams.Len())
	}
	if f.refs.Count(reference.KindSport) != 1 {
		t.Fatalf("expected one sport row, got %d", f.refs.Count(reference.KindSport))
	}
}

func TestImportService_ProcessTeams_CityWithoutCountryIsNotResolved(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t)
	progress, err := f.service.ProcessTeams(context.Background(), csvInput("name,city,country", "Lyon,Lyon,"))
	if err != nil {
		t.Fatalf("process teams: %v", err)
	}
	if progress.Successful != 1 {
		t.Fatalf("expected the row to be created, got %+v", progress)
	}
	if got := f.refs.Count(reference.KindCity); got != 0 {
		t.Fatalf("expected no city rows without a country, got %d", got)
	}
	if got := f.refs.Count(reference.KindCountry); got != 0 {
		t.Fatalf("expected no country rows for a blank country, got %d", got)
	}

	refs, err := f.teams.FindByName(context.Background(), "Lyon")
	if err != nil || len(refs) != 1 {
		t.Fatalf("find stored team: %v (%d refs)", err, len(refs))
	}
	stored, ok, err := f.teams.GetByID(context.Background(), refs[0].ID)
	if err != nil || !ok {
		t.Fatalf("get stored team: ok=%v err=%v", ok, err)
	}
	if stored.CityID != "" || stored.CountryID != "" {
		t.Fatalf("expected city and country ids unset, got city=%q country=%q", stored.CityID, stored.CountryID)
	}
	if stored.City != "Lyon" {
		t.Fatalf("expected city name kept for the natural key, got %q", stored.City)
	}

	again, err := f.service.ProcessTeams(context.Background(), csvInput("name,city,country", "lyon,LYON,"))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.Skipped != 1 {
		t.Fatalf("expected same-city duplicate to be skipped, got %+v", again)
	}
}

func TestImportService_ProcessTeams_ResumableBatches(t *testing.T) {
	t.Parallel()

	lines := []string{
		"name,city,country",
		"Arsenal,London,England",
		"Chelsea,London,England",
		"ARSENAL,london,england",
		"Leeds United,Leeds,England",
	}

	whole := newImportFixture(t)
	single, err := whole.service.ProcessTeams(context.Background(), csvInput(lines...))
	if err != nil {
		t.Fatalf("single batch: %v", err)
	}

	split := newImportFixture(t)
	input := csvInput(lines...)
	input.BatchSize = 2
	firstHalf, err := split.service.ProcessTeams(context.Background(), input)
	if err != nil {
		t.Fatalf("first half: %v", err)
	}
	if firstHalf.IsComplete || firstHalf.NextStartRow != 2 {
		t.Fatalf("unexpected first half cursor: next=%d complete=%v", firstHalf.NextStartRow, firstHalf.IsComplete)
	}
	input.StartRow = firstHalf.NextStartRow
	secondHalf, err := split.service.ProcessTeams(context.Background(), input)
	if err != nil {
		t.Fatalf("second half: %v", err)
	}
	if !secondHalf.IsComplete || secondHalf.NextStartRow != 4 {
		t.Fatalf("unexpected second half cursor: next=%d complete=%v", secondHalf.NextStartRow, secondHalf.IsComplete)
	}

	if single.Successful != firstHalf.Successful+secondHalf.Successful {
		t.Fatalf("successful mismatch: single=%d split=%d", single.Successful, firstHalf.Successful+secondHalf.Successful)
	}
	if single.Skipped != firstHalf.Skipped+secondHalf.Skipped {
		t.Fatalf("skipped mismatch: single=%d split=%d", single.Skipped, firstHalf.Skipped+secondHalf.Skipped)
	}
	if single.Successful != 3 || single.Skipped != 1 {
		t.Fatalf("unexpected single batch totals: %+v", single)
	}
}

func TestImportService_ProcessTeams_RowIsolation(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t)
	got, err := f.service.ProcessTeams(context.Background(), csvInput(
		"name,city",
		"Arsenal,London",
		",London",
		"Chelsea,London",
		"Fulham,London",
	))
	if err != nil {
		t.Fatalf("process teams: %v", err)
	}
	if len(got.Errors) != 1 || got.Successful != got.TotalRows-1 {
		t.Fatalf("unexpected progress: %+v", got)
	}
	if got.Errors[0] != "Row 2: team name is required" {
		t.Fatalf("unexpected error message: %q", got.Errors[0])
	}
	if got.Processed != 4 {
		t.Fatalf("expected every row processed, got %d", got.Processed)
	}
}

func TestImportService_ProcessTeams_RowErrors(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t)
	got, err := f.service.ProcessTeams(context.Background(), csvInput(
		"name,email,founded,employees,socials,hours",
		"Bad Email FC,not-an-email,,,,",
		"Bad Year FC,,19,,,",
		"Bad Staff FC,,,many,,",
		"Bad Socials FC,,,,twitter,",
		"Bad Hours FC,,,,,someday:9-5",
		"Good FC,info@good.example,1901,12,,mon:9-5",
	))
	if err != nil {
		t.Fatalf("process teams: %v", err)
	}
	if got.Successful != 1 || len(got.Errors) != 5 {
		t.Fatalf("unexpected progress: %+v", got)
	}
	for i, msg := range got.Errors {
		if !strings.HasPrefix(msg, "Row ") {
			t.Fatalf("error %d lacks row prefix: %q", i, msg)
		}
	}
}

func TestImportService_ProcessTeams_CompoundFields(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t)
	_, err := f.service.ProcessTeams(context.Background(), csvInput(
		"name,socials,hours",
		"Acme,twitter:https://x.com/a;facebook:https://fb.com/a,Mon:9am-5pm;tuesday:10am-4pm",
	))
	if err != nil {
		t.Fatalf("process teams: %v", err)
	}

	refs, err := f.teams.FindByName(context.Background(), "acme")
	if err != nil || len(refs) != 1 {
		t.Fatalf("find team: refs=%v err=%v", refs, err)
	}
	stored, found, err := f.teams.GetByID(context.Background(), refs[0].ID)
	if err != nil || !found {
		t.Fatalf("get team: found=%v err=%v", found, err)
	}

	want := []team.SocialLink{
		{Platform: "twitter", URL: "https://x.com/a"},
		{Platform: "facebook", URL: "https://fb.com/a"},
	}
	if len(stored.SocialLinks) != len(want) {
		t.Fatalf("expected %d social links, got %v", len(want), stored.SocialLinks)
	}
	for i := range want {
		if stored.SocialLinks[i] != want[i] {
			t.Fatalf("social link %d: got %+v want %+v", i, stored.SocialLinks[i], want[i])
		}
	}
	if len(stored.OpeningHours) != 2 || stored.OpeningHours[1].Day != "tue" {
		t.Fatalf("unexpected opening hours: %v", stored.OpeningHours)
	}
}

func TestImportService_ProcessTeams_RequestErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input ImportInput
		want  error
	}{
		{name: "header only", input: csvInput("name,city"), want: ErrMalformedInput},
		{name: "missing name column", input: csvInput("city,country", "London,England"), want: ErrMalformedInput},
		{name: "unknown file type", input: ImportInput{Data: "name\nA", FileType: "pdf"}, want: ErrMalformedInput},
		{name: "empty payload", input: ImportInput{FileType: "csv"}, want: ErrInvalidInput},
		{name: "negative start row", input: ImportInput{Data: "name\nA", FileType: "csv", StartRow: -1}, want: ErrInvalidInput},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newImportFixture(t)
			_, err := f.service.ProcessTeams(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if f.teams.Len() != 0 {
				t.Fatalf("expected no writes, got %d teams", f.teams.Len())
			}
		})
	}
}

func TestImportService_ProcessTeams_StartRowPastEnd(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t)
	input := csvInput("name", "Arsenal")
	input.StartRow = 5
	got, err := f.service.ProcessTeams(context.Background(), input)
	if err != nil {
		t.Fatalf("process teams: %v", err)
	}
	if got.Processed != 0 || !got.IsComplete || got.NextStartRow != 1 {
		t.Fatalf("unexpected progress: %+v", got)
	}
}

func TestImportService_ProcessTeams_LockBusy(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t)
	release, acquired, err := f.locker.TryAcquire(context.Background(), "import:teams")
	if err != nil || !acquired {
		t.Fatalf("acquire lock: acquired=%v err=%v", acquired, err)
	}
	defer release()

	_, err = f.service.ProcessTeams(context.Background(), csvInput("name", "Arsenal"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if _, err := f.service.ProcessContacts(context.Background(), csvInput("name,team", "John,Arsenal")); errors.Is(err, ErrConflict) {
		t.Fatalf("contact imports must not share the team lock")
	}
}

type openLocker struct{}

func (openLocker) TryAcquire(context.Context, string) (func(), bool, error) {
	return func() {}, true, nil
}

func TestImportService_Run_CancelledKeepsCursor(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t)
	f.service.locker = openLocker{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := f.service.ProcessTeams(ctx, csvInput("name", "Arsenal", "Chelsea"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got.NextStartRow != 0 || got.IsComplete {
		t.Fatalf("expected cursor on first row, got next=%d complete=%v", got.NextStartRow, got.IsComplete)
	}
	if f.teams.Len() != 0 {
		t.Fatalf("expected no writes, got %d", f.teams.Len())
	}
}

func TestImportService_Stream(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t)
	input := csvInput("name", "A FC", "B FC", "C FC", "D FC", "E FC")
	input.BatchSize = 2

	var events []batch.Progress
	total, err := f.service.Stream(context.Background(), OpProcessTeams, input, func(p batch.Progress) error {
		events = append(events, p)
		return nil
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].NextStartRow != 2 || events[1].NextStartRow != 4 || !events[2].IsComplete {
		t.Fatalf("unexpected event cursors: %+v", events)
	}
	if total.Successful != 5 || total.Processed != 5 || !total.IsComplete || total.NextStartRow != 5 {
		t.Fatalf("unexpected totals: %+v", total)
	}
}

func TestImportService_Stream_StopsWhenEmitFails(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t)
	input := csvInput("name", "A FC", "B FC", "C FC")
	input.BatchSize = 1

	stop := errors.New("client gone")
	total, err := f.service.Stream(context.Background(), OpProcessTeams, input, func(batch.Progress) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected emit error, got %v", err)
	}
	if total.Processed != 1 || total.NextStartRow != 1 {
		t.Fatalf("expected one processed row, got %+v", total)
	}
}

func TestImportService_UpdateTeams(t *testing.T) {
	t.Parallel()

	seed := team.Team{ID: "team-arsenal", Name: "Arsenal", Level: "Pro", Email: "old@arsenal.example", Phone: "+44 20 1234 5678"}

	t.Run("selected columns with nullify", func(t *testing.T) {
		t.Parallel()

		f := newImportFixture(t, seed)
		input := csvInput(
			"name,email,phone,level",
			"ARSENAL,new@arsenal.example,,Amateur",
			"Ghost FC,ghost@example.com,,",
		)
		input.SelectedColumns = []string{"email", "phone"}
		input.NullifyEmpty = true

		got, err := f.service.UpdateTeams(context.Background(), input)
		if err != nil {
			t.Fatalf("update teams: %v", err)
		}
		if got.Successful != 1 || got.Updated != 1 || got.Skipped != 1 {
			t.Fatalf("unexpected progress: %+v", got)
		}
		if len(got.NotFoundNames) != 1 || got.NotFoundNames[0] != "Ghost FC" {
			t.Fatalf("unexpected not found names: %v", got.NotFoundNames)
		}

		stored, _, _ := f.teams.GetByID(context.Background(), seed.ID)
		if stored.Email != "new@arsenal.example" || stored.Phone != "" || stored.Level != "Pro" {
			t.Fatalf("unexpected stored team: %+v", stored)
		}
		if stored.Name != "Arsenal" {
			t.Fatalf("name must not be overwritten, got %q", stored.Name)
		}
	})

	t.Run("empty cells preserved without nullify", func(t *testing.T) {
		t.Parallel()

		f := newImportFixture(t, seed)
		got, err := f.service.UpdateTeams(context.Background(), csvInput(
			"name,email,phone",
			"Arsenal,,",
		))
		if err != nil {
			t.Fatalf("update teams: %v", err)
		}
		if got.Skipped != 1 || got.Successful != 0 {
			t.Fatalf("expected empty patch to be skipped, got %+v", got)
		}
		stored, _, _ := f.teams.GetByID(context.Background(), seed.ID)
		if stored.Email != seed.Email || stored.Phone != seed.Phone {
			t.Fatalf("expected values preserved, got %+v", stored)
		}
	})

	t.Run("location resolved", func(t *testing.T) {
		t.Parallel()

		f := newImportFixture(t, seed)
		_, err := f.service.UpdateTeams(context.Background(), csvInput(
			"name,city,country,socials",
			"Arsenal,London,England,instagram:https://instagram.com/arsenal",
		))
		if err != nil {
			t.Fatalf("update teams: %v", err)
		}
		stored, _, _ := f.teams.GetByID(context.Background(), seed.ID)
		if stored.CityID == "" || stored.CountryID == "" || stored.City != "London" || stored.Country != "England" {
			t.Fatalf("expected location to be set, got %+v", stored)
		}
		if len(stored.SocialLinks) != 1 || stored.SocialLinks[0].Platform != "instagram" {
			t.Fatalf("expected social links replaced, got %v", stored.SocialLinks)
		}
	})

	t.Run("unknown selected column", func(t *testing.T) {
		t.Parallel()

		f := newImportFixture(t, seed)
		input := csvInput("name,email", "Arsenal,a@b.example")
		input.SelectedColumns = []string{"stadium"}
		if _, err := f.service.UpdateTeams(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestImportService_UpdateTeams_AmbiguousName(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t,
		team.Team{ID: "team-mcr", Name: "United", City: "Manchester", Country: "England"},
		team.Team{ID: "team-lds", Name: "United", City: "Leeds", Country: "England"},
	)
	got, err := f.service.UpdateTeams(context.Background(), csvInput(
		"name,city,level",
		"United,,Pro",
		"United,Leeds,Semi-Pro",
	))
	if err != nil {
		t.Fatalf("update teams: %v", err)
	}
	if got.Successful != 1 || len(got.Errors) != 1 || !strings.HasPrefix(got.Errors[0], "Row 1: multiple teams named") {
		t.Fatalf("unexpected progress: %+v", got)
	}
	leeds, _, _ := f.teams.GetByID(context.Background(), "team-lds")
	if leeds.Level != "Semi-Pro" {
		t.Fatalf("expected Leeds team updated, got %+v", leeds)
	}
}

func TestImportService_UpdateTeams_UnchangedValuesSkipped(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t, team.Team{ID: "team-arsenal", Name: "Arsenal", Level: "Pro", Email: "info@arsenal.example"})
	got, err := f.service.UpdateTeams(context.Background(), csvInput(
		"name,level,email",
		"Arsenal,Pro,info@arsenal.example",
		"arsenal,Pro,press@arsenal.example",
	))
	if err != nil {
		t.Fatalf("update teams: %v", err)
	}
	if got.Skipped != 1 || got.Updated != 1 || got.Successful != 1 {
		t.Fatalf("expected identical row skipped and changed row updated, got %+v", got)
	}
	stored, _, _ := f.teams.GetByID(context.Background(), "team-arsenal")
	if stored.Email != "press@arsenal.example" {
		t.Fatalf("expected second row applied, got %+v", stored)
	}
}

func TestImportService_UpdateTeams_IndexFollowsMovedTeam(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t,
		team.Team{ID: "team-mcr", Name: "United", City: "Manchester"},
		team.Team{ID: "team-lds", Name: "United", City: "Leeds", Country: "England"},
	)
	got, err := f.service.UpdateTeams(context.Background(), csvInput(
		"name,city,country",
		"United,Manchester,France",
		"United,Manchester,Spain",
	))
	if err != nil {
		t.Fatalf("update teams: %v", err)
	}
	if got.Updated != 1 {
		t.Fatalf("expected first row to update, got %+v", got)
	}
	if len(got.NotFoundNames) != 1 || got.NotFoundNames[0] != "United" {
		t.Fatalf("expected second row to miss the moved team, got %+v", got)
	}
	stored, _, _ := f.teams.GetByID(context.Background(), "team-mcr")
	if stored.Country != "France" {
		t.Fatalf("expected team to stay in France, got %+v", stored)
	}
}

func contactSeedTeams() []team.Team {
	return []team.Team{
		{ID: "team-a", Name: "Team A"},
		{ID: "team-b", Name: "Team B"},
		{ID: "team-u1", Name: "United", City: "Manchester"},
		{ID: "team-u2", Name: "United", City: "Leeds"},
	}
}

func TestImportService_ProcessContacts_ScopedUniqueness(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t, contactSeedTeams()...)
	got, err := f.service.ProcessContacts(context.Background(), csvInput(
		"name,team,email,department",
		"John Smith,Team A,john.a@example.com,Scouting",
		"John Smith,Team B,john.b@example.com,scouting",
		"john smith,team a,,",
	))
	if err != nil {
		t.Fatalf("process contacts: %v", err)
	}
	if got.Successful != 2 || got.Skipped != 1 || len(got.Errors) != 0 {
		t.Fatalf("unexpected progress: %+v", got)
	}
	if f.contacts.Len() != 2 {
		t.Fatalf("expected 2 contacts, got %d", f.contacts.Len())
	}
	if f.refs.Count(reference.KindDepartment) != 1 {
		t.Fatalf("expected one department, got %d", f.refs.Count(reference.KindDepartment))
	}

	stored := f.contacts.List("team-a")
	if len(stored) != 1 || stored[0].Costs.Phone != 2 {
		t.Fatalf("expected credit costs on stored contact, got %+v", stored)
	}
}

func TestImportService_ProcessContacts_ConflictResolution(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t, contactSeedTeams()...)
	input := csvInput(
		"name,team",
		"Jane Doe,United",
		"Bob Roe,United",
		"Ann Poe,Nowhere FC",
	)
	input.ConflictResolutions = map[int]string{2: "team-u2"}

	got, err := f.service.ProcessContacts(context.Background(), input)
	if err != nil {
		t.Fatalf("process contacts: %v", err)
	}
	if got.Successful != 1 || len(got.Errors) != 2 {
		t.Fatalf("unexpected progress: %+v", got)
	}
	if got.Errors[0] != `Row 1: multiple teams named "United"; conflict resolution required` {
		t.Fatalf("unexpected ambiguity error: %q", got.Errors[0])
	}
	if got.Errors[1] != `Row 3: team "Nowhere FC" not found` {
		t.Fatalf("unexpected missing team error: %q", got.Errors[1])
	}
	if len(f.contacts.List("team-u2")) != 1 {
		t.Fatalf("expected resolved contact on team-u2")
	}
}

func TestImportService_ProcessContacts_InvalidFields(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t, contactSeedTeams()...)
	got, err := f.service.ProcessContacts(context.Background(), csvInput(
		"name,team,phone,linkedin,is_email_verified",
		"A,Team A,abc,,",
		"B,Team A,,https://example.com/b,",
		"C,Team A,,,maybe",
		"D,Team A,+1 (555) 010-9999,linkedin.com/in/d,yes",
	))
	if err != nil {
		t.Fatalf("process contacts: %v", err)
	}
	if got.Successful != 1 || len(got.Errors) != 3 {
		t.Fatalf("unexpected progress: %+v", got)
	}
	stored, found, _ := f.contacts.FindByNameAndTeam(context.Background(), "team-a", "d")
	if !found || stored.LinkedIn != "https://linkedin.com/in/d" || !stored.IsEmailVerified {
		t.Fatalf("unexpected stored contact: %+v", stored)
	}
}

func TestImportService_UpdateContacts(t *testing.T) {
	t.Parallel()

	f := newImportFixture(t, contactSeedTeams()...)
	if _, err := f.service.ProcessContacts(context.Background(), csvInput(
		"name,team,role,email",
		"John Smith,Team A,Scout,john@example.com",
	)); err != nil {
		t.Fatalf("seed contacts: %v", err)
	}

	input := csvInput(
		"name,team,role,email,is_email_verified,department",
		"JOHN SMITH,team a,Head Coach,,yes,Coaching",
		"Nobody,Team A,Coach,,,",
	)
	input.NullifyEmpty = true
	got, err := f.service.UpdateContacts(context.Background(), input)
	if err != nil {
		t.Fatalf("update contacts: %v", err)
	}
	if got.Updated != 1 || got.Skipped != 1 || len(got.NotFoundNames) != 1 || got.NotFoundNames[0] != "Nobody" {
		t.Fatalf("unexpected progress: %+v", got)
	}

	stored, _, _ := f.contacts.FindByNameAndTeam(context.Background(), "team-a", "John Smith")
	if stored.Role != "Head Coach" || stored.Email != "" || !stored.IsEmailVerified || stored.DepartmentID == "" {
		t.Fatalf("unexpected stored contact: %+v", stored)
	}
	if stored.Name != "John Smith" {
		t.Fatalf("name must not be overwritten, got %q", stored.Name)
	}
}

func TestImportService_TemplatesRoundTrip(t *testing.T) {
	t.Parallel()

	templates := NewTemplateService()
	for _, format := range []string{"csv", "xlsx"} {
		format := format
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			f := newImportFixture(t)

			teamsTpl, err := templates.Render("teams", format)
			if err != nil {
				t.Fatalf("render teams template: %v", err)
			}
			contactsTpl, err := templates.Render("contacts", format)
			if err != nil {
				t.Fatalf("render contacts template: %v", err)
			}

			encode := func(body []byte) string {
				if format == "csv" {
					return string(body)
				}
				return base64.StdEncoding.EncodeToString(body)
			}

			teamsGot, err := f.service.ProcessTeams(context.Background(), ImportInput{Data: encode(teamsTpl.Body), FileType: format})
			if err != nil {
				t.Fatalf("import teams template: %v", err)
			}
			if teamsGot.Successful != 1 || len(teamsGot.Errors) != 0 {
				t.Fatalf("unexpected teams template result: %+v", teamsGot)
			}

			contactsGot, err := f.service.ProcessContacts(context.Background(), ImportInput{Data: encode(contactsTpl.Body), FileType: format})
			if err != nil {
				t.Fatalf("import contacts template: %v", err)
			}
			if contactsGot.Successful != 1 || len(contactsGot.Errors) != 0 {
				t.Fatalf("unexpected contacts template result: %+v", contactsGot)
			}
		})
	}
}

func TestTemplateService_UnknownEntity(t *testing.T) {
	t.Parallel()

	if _, err := NewTemplateService().Render("players", "csv"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := NewTemplateService().Render("teams", "xls"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for xls template, got %v", err)
	}
}
