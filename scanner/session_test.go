package scanner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nuxrewards/loyalty-app/geo"
)

const sampleUUID = "a1b2c3d4-0000-0000-0000-000000000000"

type fakeDecoder struct {
	mu       sync.Mutex
	started  int
	stopped  int
	onDecode func(string)
}

func (d *fakeDecoder) Start(onDecode func(string)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started++
	d.onDecode = onDecode
	return nil
}

func (d *fakeDecoder) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped++
}

type fakeClaims struct {
	mu    sync.Mutex
	calls int
	last  ClaimRequest
	err   error
}

func (f *fakeClaims) Claim(_ context.Context, _ string, req ClaimRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	return f.err
}

func staticGeo(lat, lon float64) geo.Provider {
	return geo.ProviderFunc(func(context.Context) (geo.Position, error) {
		return geo.Position{Latitude: lat, Longitude: lon}, nil
	})
}

func newTestSession(claims *fakeClaims, token string) (*Session, *fakeDecoder) {
	dec := &fakeDecoder{}
	sess := NewSession(Config{
		Decoder: dec,
		Geo:     staticGeo(48.85, 2.29),
		Claims:  claims,
		Token:   func() string { return token },
	})
	return sess, dec
}

func TestMenuLinkNavigatesWithoutClaim(t *testing.T) {
	claims := &fakeClaims{}
	dec := &fakeDecoder{}

	var gotCode string
	var gotTable int
	sess := NewSession(Config{
		Decoder: dec,
		Geo:     geo.Unsupported(), // must not be consulted for menu links
		Claims:  claims,
		Token:   func() string { return "" }, // nor does auth matter
		OnNavigate: func(code string, table int) {
			gotCode = code
			gotTable = table
		},
	})

	assert.NoError(t, sess.Open())
	sess.HandleDecode(context.Background(), "https://example.com/menu/"+sampleUUID+"?table=7")

	assert.Equal(t, sampleUUID, gotCode)
	assert.Equal(t, 7, gotTable)
	assert.Equal(t, StateClosed, sess.State())
	assert.Equal(t, 0, claims.calls)
}

func TestRawCodeWithoutTokenFails(t *testing.T) {
	claims := &fakeClaims{}
	sess, _ := newTestSession(claims, "")

	assert.NoError(t, sess.Open())
	sess.HandleDecode(context.Background(), "LOYALTY-XYZ-123")

	assert.Equal(t, StateError, sess.State())
	assert.Equal(t, MsgMustLogIn, sess.ErrorMessage())
	assert.Equal(t, 0, claims.calls, "no claim attempt without a token")
}

func TestSuccessfulClaim(t *testing.T) {
	claims := &fakeClaims{}
	dec := &fakeDecoder{}

	refreshed := false
	sess := NewSession(Config{
		Decoder:   dec,
		Geo:       staticGeo(48.85, 2.29),
		Claims:    claims,
		Token:     func() string { return "tok" },
		OnSuccess: func() { refreshed = true },
	})

	assert.NoError(t, sess.Open())
	sess.HandleDecode(context.Background(), "LOYALTY-XYZ-123")

	assert.True(t, refreshed)
	assert.Equal(t, StateClosed, sess.State())
	assert.Equal(t, 1, claims.calls)
	assert.Equal(t, "LOYALTY-XYZ-123", claims.last.QRCode)
	assert.InDelta(t, 48.85, claims.last.Latitude, 1e-9)
	assert.InDelta(t, 2.29, claims.last.Longitude, 1e-9)
}

func TestOneShotDecodeGuard(t *testing.T) {
	claims := &fakeClaims{}
	sess, dec := newTestSession(claims, "tok")

	assert.NoError(t, sess.Open())
	sess.HandleDecode(context.Background(), "LOYALTY-XYZ-123")
	sess.HandleDecode(context.Background(), "LOYALTY-XYZ-123")

	assert.Equal(t, 1, claims.calls, "second decode event must be ignored")
	assert.Equal(t, 1, dec.stopped)
}

func TestRetryRearmsGuard(t *testing.T) {
	claims := &fakeClaims{err: &ClaimError{StatusCode: http.StatusBadGateway, Message: "upstream down"}}
	sess, dec := newTestSession(claims, "tok")

	assert.NoError(t, sess.Open())
	sess.HandleDecode(context.Background(), "LOYALTY-XYZ-123")
	assert.Equal(t, StateError, sess.State())

	claims.err = nil
	assert.NoError(t, sess.Retry())
	assert.Equal(t, StateCameraActive, sess.State())
	assert.Equal(t, 2, dec.started)

	sess.HandleDecode(context.Background(), "LOYALTY-XYZ-123")
	assert.Equal(t, 2, claims.calls)
	assert.Equal(t, StateClosed, sess.State())
}

func TestForbiddenStatusClassifiedAsLocation(t *testing.T) {
	claims := &fakeClaims{err: &ClaimError{StatusCode: http.StatusForbidden, Message: "nope"}}
	sess, _ := newTestSession(claims, "tok")

	assert.NoError(t, sess.Open())
	sess.HandleDecode(context.Background(), "LOYALTY-XYZ-123")

	assert.Equal(t, StateError, sess.State())
	assert.Equal(t, MsgNotAtRestaurant, sess.ErrorMessage())
}

func TestLocationWordingClassified(t *testing.T) {
	claims := &fakeClaims{err: &ClaimError{StatusCode: http.StatusBadRequest, Message: "Invalid LOCATION supplied"}}
	sess, _ := newTestSession(claims, "tok")

	assert.NoError(t, sess.Open())
	sess.HandleDecode(context.Background(), "LOYALTY-XYZ-123")

	assert.Equal(t, MsgNotAtRestaurant, sess.ErrorMessage())
}

func TestGenericErrorSurfacedVerbatim(t *testing.T) {
	claims := &fakeClaims{err: &ClaimError{StatusCode: http.StatusInternalServerError, Message: "database exploded"}}
	sess, _ := newTestSession(claims, "tok")

	assert.NoError(t, sess.Open())
	sess.HandleDecode(context.Background(), "LOYALTY-XYZ-123")

	assert.Equal(t, "database exploded", sess.ErrorMessage())
}

func TestUnsupportedGeolocation(t *testing.T) {
	claims := &fakeClaims{}
	dec := &fakeDecoder{}
	sess := NewSession(Config{
		Decoder: dec,
		Geo:     geo.Unsupported(),
		Claims:  claims,
		Token:   func() string { return "tok" },
	})

	assert.NoError(t, sess.Open())
	sess.HandleDecode(context.Background(), "LOYALTY-XYZ-123")

	assert.Equal(t, StateError, sess.State())
	assert.Equal(t, MsgNoGeolocation, sess.ErrorMessage())
	assert.Equal(t, 0, claims.calls)
}

func TestGeolocationErrorPropagates(t *testing.T) {
	claims := &fakeClaims{}
	dec := &fakeDecoder{}
	sess := NewSession(Config{
		Decoder: dec,
		Geo: geo.ProviderFunc(func(context.Context) (geo.Position, error) {
			return geo.Position{}, errors.New("permission denied")
		}),
		Claims: claims,
		Token:  func() string { return "tok" },
	})

	assert.NoError(t, sess.Open())
	sess.HandleDecode(context.Background(), "LOYALTY-XYZ-123")

	assert.Equal(t, "permission denied", sess.ErrorMessage())
}

func TestCloseResetsEphemeralState(t *testing.T) {
	claims := &fakeClaims{err: &ClaimError{StatusCode: http.StatusInternalServerError, Message: "boom"}}
	sess, dec := newTestSession(claims, "tok")

	assert.NoError(t, sess.Open())
	sess.HandleDecode(context.Background(), "LOYALTY-XYZ-123")
	sess.Close()

	assert.Equal(t, StateClosed, sess.State())
	assert.Empty(t, sess.ErrorMessage())
	assert.GreaterOrEqual(t, dec.stopped, 1)
}

func TestHTTPClaimClient(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/claims", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":true,"message":"Points claimed"}`))
	}))
	defer srv.Close()

	client := NewHTTPClaimClient(srv.URL)
	err := client.Claim(context.Background(), "tok", ClaimRequest{QRCode: "X", Latitude: 1, Longitude: 2})

	assert.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestHTTPClaimClientErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"status":false,"message":"You must be at the restaurant location to claim points"}`))
	}))
	defer srv.Close()

	client := NewHTTPClaimClient(srv.URL)
	err := client.Claim(context.Background(), "tok", ClaimRequest{QRCode: "X"})

	var ce *ClaimError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusForbidden, ce.StatusCode)
	assert.Contains(t, ce.Message, "restaurant location")
}
