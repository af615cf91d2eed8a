package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/scoring"
	"github.com/julianstephens/weekwise/internal/slotstore"
	"github.com/julianstephens/weekwise/internal/storage"
)

func sampleWeek() scoring.SlotMap {
	return scoring.SlotMap{
		"Monday__20":  {Type: models.SlotStudy, Title: "Algebra; ch. 3", Notes: "bring notes\nand pens"},
		"Saturday__8": {Type: models.SlotEssential},
		"Sunday__23":  {Type: models.SlotNonEssential, Title: "Games"},
		"Tuesday__21": {Type: models.SlotEmpty, Title: "maybe"},
	}
}

func TestWriteICS(t *testing.T) {
	// Wednesday 2026-10-14, so the week starts Monday 2026-10-12
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer

	n, err := WriteICS(&buf, sampleWeek(), ICSOptions{Name: "My week", Now: now})
	if err != nil {
		t.Fatalf("WriteICS failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 events, got %d", n)
	}
	body := buf.String()

	requiredFields := []string{
		"BEGIN:VCALENDAR\r\n",
		"VERSION:2.0",
		"PRODID:-//weekwise//weekly planner//EN",
		"X-WR-CALNAME:My week",
		"DTSTART:20261012T200000",
		"DTEND:20261012T210000",
		"RRULE:FREQ=WEEKLY;BYDAY=MO",
		`SUMMARY:Algebra\; ch. 3`,
		`DESCRIPTION:bring notes\nand pens`,
		"DTSTART:20261017T080000",
		"SUMMARY:Essential Break",
		"RRULE:FREQ=WEEKLY;BYDAY=SA",
		"DTSTART:20261018T230000",
		"DTEND:20261019T000000",
		"UID:" + EventUID("Monday__20"),
		"END:VCALENDAR\r\n",
	}
	for _, field := range requiredFields {
		if !strings.Contains(body, field) {
			t.Errorf("ICS output missing %q", field)
		}
	}

	if got := strings.Count(body, "BEGIN:VEVENT"); got != 3 {
		t.Errorf("expected 3 VEVENT blocks, got %d", got)
	}
	if strings.Contains(body, "maybe") {
		t.Error("empty slot should not be exported")
	}
}

func TestWriteICSNamedZone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, loc)
	var buf bytes.Buffer
	if _, err := WriteICS(&buf, sampleWeek(), ICSOptions{Now: now}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "DTSTART;TZID=Europe/Berlin:20261012T200000") {
		t.Errorf("expected zoned DTSTART, got:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "X-WR-CALNAME:weekwise") {
		t.Error("default calendar name missing")
	}

	body := buf.String()
	tzFields := []string{
		"BEGIN:VTIMEZONE\r\nTZID:Europe/Berlin\r\n",
		"BEGIN:DAYLIGHT\r\nDTSTART:20260329T020000\r\nRRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=-1SU\r\nTZOFFSETFROM:+0100\r\nTZOFFSETTO:+0200\r\nTZNAME:CEST\r\n",
		"BEGIN:STANDARD\r\nDTSTART:20261025T030000\r\nRRULE:FREQ=YEARLY;BYMONTH=10;BYDAY=-1SU\r\nTZOFFSETFROM:+0200\r\nTZOFFSETTO:+0100\r\nTZNAME:CET\r\n",
		"END:VTIMEZONE",
	}
	for _, field := range tzFields {
		if !strings.Contains(body, field) {
			t.Errorf("VTIMEZONE missing %q", field)
		}
	}
	if strings.Index(body, "END:VTIMEZONE") > strings.Index(body, "BEGIN:VEVENT") {
		t.Error("VTIMEZONE should precede the events")
	}
}

func TestWriteICSFixedZone(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, loc)
	var buf bytes.Buffer
	if _, err := WriteICS(&buf, sampleWeek(), ICSOptions{Now: now}); err != nil {
		t.Fatal(err)
	}
	body := buf.String()
	for _, field := range []string{
		"DTSTART;TZID=IST:20261012T200000",
		"TZID:IST\r\nBEGIN:STANDARD\r\nDTSTART:19700101T000000\r\nTZOFFSETFROM:+0530\r\nTZOFFSETTO:+0530\r\n",
	} {
		if !strings.Contains(body, field) {
			t.Errorf("ICS output missing %q", field)
		}
	}
	if strings.Contains(body, "BEGIN:DAYLIGHT") {
		t.Error("fixed zone should have no daylight rule")
	}
}

func TestWriteICSUTCHasNoTimezone(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	if _, err := WriteICS(&buf, sampleWeek(), ICSOptions{Now: now}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "VTIMEZONE") || strings.Contains(buf.String(), "TZID") {
		t.Errorf("floating calendar should not reference a zone:\n%s", buf.String())
	}
}

func TestWriteICSFoldsLongLines(t *testing.T) {
	title := strings.Repeat("Lecture notes ", 6) + strings.Repeat("é", 40)
	week := scoring.SlotMap{"Monday__20": {Type: models.SlotStudy, Title: title}}
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	if _, err := WriteICS(&buf, week, ICSOptions{Now: now}); err != nil {
		t.Fatal(err)
	}
	body := buf.String()
	if !strings.HasSuffix(body, "\r\n") {
		t.Fatal("calendar should end with CRLF")
	}

	folded := 0
	for _, line := range strings.Split(strings.TrimSuffix(body, "\r\n"), "\r\n") {
		if len(line) > 75 {
			t.Errorf("line exceeds 75 octets (%d): %q", len(line), line)
		}
		if !utf8.ValidString(line) {
			t.Errorf("fold split a multi-byte character: %q", line)
		}
		if strings.HasPrefix(line, " ") {
			folded++
		}
	}
	if folded == 0 {
		t.Error("expected the long summary to be folded")
	}

	unfolded := strings.ReplaceAll(body, "\r\n ", "")
	if !strings.Contains(unfolded, "SUMMARY:"+title+"\r\n") {
		t.Error("unfolding should restore the original summary")
	}
}

func TestFoldLineShortIsUnchanged(t *testing.T) {
	if got := foldLine("VERSION:2.0"); got != "VERSION:2.0\r\n" {
		t.Errorf("foldLine = %q", got)
	}
	exact := strings.Repeat("a", 75)
	if got := foldLine(exact); got != exact+"\r\n" {
		t.Errorf("75-octet line should not fold, got %q", got)
	}
	if got := foldLine(exact + "b"); got != exact+"\r\n b\r\n" {
		t.Errorf("76-octet line folded as %q", got)
	}
}

func TestWriteICSEmptyWeek(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteICS(&buf, scoring.SlotMap{}, ICSOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || strings.Contains(buf.String(), "BEGIN:VEVENT") {
		t.Errorf("expected no events, got %d", n)
	}
}

func TestEventUIDStable(t *testing.T) {
	if EventUID("Monday__20") != EventUID("Monday__20") {
		t.Error("UID should be deterministic")
	}
	if EventUID("Monday__20") == EventUID("Monday__21") {
		t.Error("UIDs should differ per slot")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := slotstore.New(storage.NewMemoryStore())
	if err := src.Replace(ctx, map[string]models.Slot(sampleWeek())); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, src.Snapshot(), time.Now()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"app": "weekwise"`) {
		t.Errorf("export missing app marker: %s", buf.String())
	}

	dst := slotstore.New(storage.NewMemoryStore())
	n, err := Import(ctx, &buf, dst)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if n != src.Len() {
		t.Errorf("imported %d slots, want %d", n, src.Len())
	}
	if got := dst.Snapshot()["Monday__20"]; got.Title != "Algebra; ch. 3" {
		t.Errorf("Monday__20 = %+v", got)
	}
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"bare record", `{"Monday__20":{"type":"study","title":"","notes":""}}`, 1, false},
		{"envelope", `{"app":"weekwise","slots":{"Sunday__8":{"type":"essential"}}}`, 1, false},
		{"empty object", `{}`, 0, false},
		{"empty input", ``, 0, true},
		{"array", `[1,2]`, 0, true},
		{"bad id", `{"Monday__7":{"type":"study"}}`, 0, true},
		{"bad type", `{"Monday__20":{"type":"nap"}}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadJSON(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(got) != tt.want {
				t.Errorf("ReadJSON() returned %d slots, want %d", len(got), tt.want)
			}
		})
	}
}

func TestImportLeavesStoreOnError(t *testing.T) {
	ctx := context.Background()
	dst := slotstore.New(storage.NewMemoryStore())
	if err := dst.Set(ctx, time.Monday, 20, models.Slot{Type: models.SlotStudy}); err != nil {
		t.Fatal(err)
	}
	if _, err := Import(ctx, strings.NewReader(`{"Monday__20":{"type":"nap"}}`), dst); err == nil {
		t.Fatal("expected import error")
	}
	if dst.Get(time.Monday, 20).Type != models.SlotStudy {
		t.Error("failed import modified the store")
	}
}
