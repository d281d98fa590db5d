package service

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/littlesteps/booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	downloadLinkRe = regexp.MustCompile(`/data-download/([0-9a-f]{64})`)
	deletionLinkRe = regexp.MustCompile(`/data-deletion/([0-9a-f]{64})`)
)

type gdprFixture struct {
	svc       *GDPRService
	tokens    *fakeTokenRepo
	bookings  *fakeBookingRepo
	consents  *fakeConsentRepo
	deletions *fakeDeletionRepo
	sender    *recordingSender
	now       time.Time
}

func newGDPRFixture(t *testing.T, seed ...*model.Booking) *gdprFixture {
	t.Helper()
	f := &gdprFixture{
		tokens:    newFakeTokenRepo(),
		bookings:  newFakeBookingRepo(seed...),
		consents:  &fakeConsentRepo{},
		deletions: newFakeDeletionRepo(),
		sender:    &recordingSender{},
		now:       time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
	}
	emails := NewEmailService(f.sender, "https://littlesteps.test/", "Little Steps", "")
	f.svc = NewGDPRService(f.tokens, f.deletions, f.bookings, f.consents, emails, GDPROptions{}).
		WithClock(func() time.Time { return f.now })
	return f
}

func parentBooking() *model.Booking {
	return &model.Booking{
		ParentName:    "Sam Parent",
		Email:         "parent@example.com",
		ServiceType:   "babysitting",
		BookingDate:   "2026-11-02",
		StartTime:     "18:00",
		DurationHours: 3,
		ChildrenCount: 2,
	}
}

func (f *gdprFixture) lastLink(t *testing.T, re *regexp.Regexp) string {
	t.Helper()
	msgs := f.sender.messages()
	require.NotEmpty(t, msgs)
	m := re.FindStringSubmatch(msgs[len(msgs)-1].Text)
	require.Len(t, m, 2, "email does not contain a link")
	return m[1]
}

func (f *gdprFixture) mintToken(t *testing.T) string {
	t.Helper()
	require.NoError(t, f.svc.RequestExport(context.Background(), "parent@example.com", model.ExportTypeFull))
	return f.lastLink(t, downloadLinkRe)
}

func TestRequestExportWithDataSendsDownloadLink(t *testing.T) {
	f := newGDPRFixture(t, parentBooking())

	err := f.svc.RequestExport(context.Background(), "  Parent@Example.com ", model.ExportTypeFull)
	require.NoError(t, err)

	tokens := f.tokens.all()
	require.Len(t, tokens, 1)
	tok := tokens[0]
	assert.Equal(t, "parent@example.com", tok.UserEmail)
	assert.Equal(t, model.ExportTypeFull, tok.ExportType)
	assert.False(t, tok.Used)
	assert.Equal(t, f.now.Add(24*time.Hour), tok.ExpiresAt)

	msgs := f.sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "parent@example.com", msgs[0].To)
	assert.Contains(t, msgs[0].Text, "https://littlesteps.test/data-download/"+tok.Token)
	assert.Contains(t, msgs[0].HTML, tok.Token)
}

func TestRequestExportWithoutDataSendsNoticeOnly(t *testing.T) {
	f := newGDPRFixture(t, parentBooking())

	err := f.svc.RequestExport(context.Background(), "nobody@example.com", model.ExportTypeFull)
	require.NoError(t, err)

	assert.Empty(t, f.tokens.all())
	msgs := f.sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "nobody@example.com", msgs[0].To)
	assert.NotContains(t, msgs[0].Text, "/data-download/")
	assert.Contains(t, msgs[0].Text, "don't hold any bookings")
}

func TestRequestExportCountsConsentAsData(t *testing.T) {
	f := newGDPRFixture(t)
	email := "consent@example.com"
	require.NoError(t, f.consents.Create(&model.ConsentRecord{VisitorID: "v1", Email: &email, Necessary: true, PolicyVersion: "1"}))

	require.NoError(t, f.svc.RequestExport(context.Background(), email, ""))
	tokens := f.tokens.all()
	require.Len(t, tokens, 1)
	assert.Equal(t, model.ExportTypeFull, tokens[0].ExportType)
}

func TestRequestExportTwiceMintsDistinctTokens(t *testing.T) {
	f := newGDPRFixture(t, parentBooking())

	first := f.mintToken(t)
	second := f.mintToken(t)
	assert.NotEqual(t, first, second)
	assert.Len(t, f.tokens.all(), 2)

	for _, tok := range []string{first, second} {
		export, err := f.svc.ValidateToken(context.Background(), tok)
		require.NoError(t, err)
		assert.False(t, export.NoData)
	}
}

func TestRequestExportInvalidInput(t *testing.T) {
	f := newGDPRFixture(t)

	assert.ErrorIs(t, f.svc.RequestExport(context.Background(), "not-an-email", model.ExportTypeFull), ErrInvalidEmail)
	assert.ErrorIs(t, f.svc.RequestExport(context.Background(), "parent@example.com", "everything"), ErrInvalidExportType)
	assert.Empty(t, f.sender.messages())
}

func TestRequestExportTransportFailure(t *testing.T) {
	for _, email := range []string{"parent@example.com", "nobody@example.com"} {
		t.Run(email, func(t *testing.T) {
			f := newGDPRFixture(t, parentBooking())
			f.sender.err = errSMTPDown

			err := f.svc.RequestExport(context.Background(), email, model.ExportTypeFull)
			assert.ErrorIs(t, err, ErrEmailTransport)
		})
	}
}

func TestValidateTokenExpiryWinsOverUsed(t *testing.T) {
	tests := []struct {
		name    string
		offset  time.Duration // now relative to expires_at
		used    bool
		wantErr error
	}{
		{"before expiry unused", -time.Nanosecond, false, nil},
		{"before expiry used", -time.Nanosecond, true, ErrTokenUsed},
		{"at expiry unused", 0, false, ErrTokenExpired},
		{"at expiry used", 0, true, ErrTokenExpired},
		{"after expiry unused", time.Hour, false, ErrTokenExpired},
		{"after expiry used", time.Hour, true, ErrTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGDPRFixture(t, parentBooking())
			tok := f.mintToken(t)
			if tt.used {
				require.NoError(t, f.svc.InvalidateToken(context.Background(), tok))
			}

			f.now = f.now.Add(24*time.Hour + tt.offset)
			_, err := f.svc.ValidateToken(context.Background(), tok)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTokenTwentyFiveHoursLater(t *testing.T) {
	f := newGDPRFixture(t, parentBooking())
	tok := f.mintToken(t)

	f.now = f.now.Add(25 * time.Hour)
	_, err := f.svc.ValidateToken(context.Background(), tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenDoesNotBurn(t *testing.T) {
	f := newGDPRFixture(t, parentBooking())
	tok := f.mintToken(t)

	for range 3 {
		export, err := f.svc.ValidateToken(context.Background(), tok)
		require.NoError(t, err)
		require.Len(t, export.Bundle.Bookings, 1)
		assert.Equal(t, "parent-example-com-2026-10-17.json", export.Filename)
	}
}

func TestInvalidateThenValidateReportsUsed(t *testing.T) {
	f := newGDPRFixture(t, parentBooking())
	tok := f.mintToken(t)

	require.NoError(t, f.svc.InvalidateToken(context.Background(), tok))
	_, err := f.svc.ValidateToken(context.Background(), tok)
	assert.ErrorIs(t, err, ErrTokenUsed)

	assert.ErrorIs(t, f.svc.InvalidateToken(context.Background(), tok), ErrTokenUsed)
	assert.ErrorIs(t, f.svc.InvalidateToken(context.Background(), "unknown"), ErrTokenNotFound)
}

func TestConcurrentInvalidateExactlyOneWins(t *testing.T) {
	f := newGDPRFixture(t, parentBooking())
	tok := f.mintToken(t)

	const callers = 2
	var wg sync.WaitGroup
	results := make(chan error, callers)
	start := make(chan struct{})
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results <- f.svc.InvalidateToken(context.Background(), tok)
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	var ok, used int
	for err := range results {
		switch err {
		case nil:
			ok++
		case ErrTokenUsed:
			used++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, used)
}

func TestValidateTokenNotFound(t *testing.T) {
	f := newGDPRFixture(t)
	_, err := f.svc.ValidateToken(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestValidateTokenNoDataMarker(t *testing.T) {
	f := newGDPRFixture(t, parentBooking())
	require.NoError(t, f.svc.RequestExport(context.Background(), "parent@example.com", model.ExportTypeConsents))
	tok := f.lastLink(t, downloadLinkRe)

	export, err := f.svc.ValidateToken(context.Background(), tok)
	require.NoError(t, err)
	assert.True(t, export.NoData)
	assert.Empty(t, export.Bundle.Consents)

	// Nothing to hand out, so the token is left alone.
	export, err = f.svc.DownloadExport(context.Background(), tok)
	require.NoError(t, err)
	assert.True(t, export.NoData)
	_, err = f.svc.ValidateToken(context.Background(), tok)
	assert.NoError(t, err)
}

func TestDownloadExportBurnsToken(t *testing.T) {
	f := newGDPRFixture(t, parentBooking())
	tok := f.mintToken(t)

	export, err := f.svc.DownloadExport(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "parent@example.com", export.Bundle.Email)
	assert.Len(t, export.Bundle.Bookings, 1)

	_, err = f.svc.DownloadExport(context.Background(), tok)
	assert.ErrorIs(t, err, ErrTokenUsed)
}

func TestExportFilename(t *testing.T) {
	day := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "jo-anne-smith-mail-example-org-2026-03-09.json", ExportFilename("Jo.Anne+Smith@mail.example.org", day))
	assert.Equal(t, "data-export-2026-03-09.json", ExportFilename("@@", day))
}

func TestConfirmDeletionSucceedsOnce(t *testing.T) {
	f := newGDPRFixture(t, parentBooking())
	email := "parent@example.com"
	require.NoError(t, f.consents.Create(&model.ConsentRecord{VisitorID: "v1", Email: &email, Necessary: true, PolicyVersion: "1"}))
	f.mintToken(t)

	require.NoError(t, f.svc.RequestDeletion(context.Background(), email, "moving away"))
	tok := f.lastLink(t, deletionLinkRe)

	result, err := f.svc.ConfirmDeletion(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.BookingsDeleted)
	assert.Equal(t, int64(1), result.ConsentsDeleted)
	assert.Equal(t, int64(1), result.TokensDeleted)

	count, _ := f.bookings.CountByEmail(email)
	assert.Zero(t, count)

	_, err = f.svc.ConfirmDeletion(context.Background(), tok)
	assert.ErrorIs(t, err, ErrDeletionCompleted)

	msgs := f.sender.messages()
	assert.Contains(t, msgs[len(msgs)-1].Subject, "has been deleted")
}

func TestRequestDeletionWithoutData(t *testing.T) {
	f := newGDPRFixture(t)

	require.NoError(t, f.svc.RequestDeletion(context.Background(), "nobody@example.com", ""))
	reqs, err := f.svc.ListDeletionRequests(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, reqs)

	msgs := f.sender.messages()
	require.Len(t, msgs, 1)
	assert.NotContains(t, msgs[0].Text, "/data-deletion/")
}

func TestConfirmDeletionExpired(t *testing.T) {
	f := newGDPRFixture(t, parentBooking())
	require.NoError(t, f.svc.RequestDeletion(context.Background(), "parent@example.com", ""))
	tok := f.lastLink(t, deletionLinkRe)

	f.now = f.now.Add(24 * time.Hour)
	_, err := f.svc.ConfirmDeletion(context.Background(), tok)
	assert.ErrorIs(t, err, ErrDeletionExpired)

	count, _ := f.bookings.CountByEmail("parent@example.com")
	assert.Equal(t, 1, count)

	_, err = f.svc.ConfirmDeletion(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrDeletionNotFound)
}

func TestHousekeeping(t *testing.T) {
	f := newGDPRFixture(t, parentBooking())
	f.mintToken(t)
	require.NoError(t, f.svc.RequestDeletion(context.Background(), "parent@example.com", ""))

	f.now = f.now.Add(25 * time.Hour)
	expired, err := f.svc.ExpireDeletionRequests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	removed, err := f.svc.CleanupTokens(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed, "tokens are kept for the retention window")

	f.now = f.now.Add(31 * 24 * time.Hour)
	removed, err = f.svc.CleanupTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
