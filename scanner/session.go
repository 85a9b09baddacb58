// Package scanner drives the scan-to-claim flow: camera decode, payload
// classification, geolocation-gated claim submission and user-facing error
// classification. One Session covers one open scan UI.
package scanner

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/nuxrewards/loyalty-app/geo"
	"github.com/nuxrewards/loyalty-app/scan"
)

type State int

const (
	StateIdle State = iota
	StateCameraActive
	StateProcessing
	StateError
	StateClosed
)

// Decoder owns the camera and reports each successfully decoded payload.
type Decoder interface {
	Start(onDecode func(text string)) error
	Stop()
}

// User-facing messages for the distinct failure branches.
const (
	MsgMustLogIn       = "You need to log in before claiming loyalty points"
	MsgNotAtRestaurant = "You must be at the restaurant to claim these points"
	MsgNoGeolocation   = "Location services are not available on this device"
)

// Config wires the session's collaborators. Decoder, Geo, Claims and Token
// are required; the callbacks may be nil.
type Config struct {
	Decoder Decoder
	Geo     geo.Provider
	Claims  ClaimClient
	// Token returns the current session token, empty when logged out.
	Token func() string
	// OnNavigate fires for menu deep-links; table is 0 when absent.
	OnNavigate func(qrCode string, table int)
	// OnSuccess fires after a fulfilled claim, before the session closes.
	// The typical callback refreshes the user's balance.
	OnSuccess func()
}

// Session is the scan-to-claim state machine. A one-shot guard ensures a
// single physical code is processed at most once per scan session; Retry
// re-arms it.
type Session struct {
	cfg Config

	mu      sync.Mutex
	state   State
	decoded bool
	errMsg  string
}

func NewSession(cfg Config) *Session {
	return &Session{cfg: cfg}
}

// Open starts the decoder and moves the session to camera-active.
func (s *Session) Open() error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return errors.New("scan session already open")
	}
	s.mu.Unlock()

	if err := s.cfg.Decoder.Start(func(text string) {
		s.HandleDecode(context.Background(), text)
	}); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = StateCameraActive
	s.mu.Unlock()
	return nil
}

// HandleDecode processes one decoded payload. Any decode event after the
// first is ignored until Retry re-arms the guard.
func (s *Session) HandleDecode(ctx context.Context, text string) {
	s.mu.Lock()
	if s.decoded || s.state != StateCameraActive {
		s.mu.Unlock()
		return
	}
	s.decoded = true
	s.state = StateProcessing
	s.mu.Unlock()

	// Suspend decoding so the same physical code cannot fire twice.
	s.cfg.Decoder.Stop()

	result := scan.Parse(text)
	if result.Kind == scan.MenuLink {
		s.finish(func() {
			if s.cfg.OnNavigate != nil {
				s.cfg.OnNavigate(result.QRCode, result.Table)
			}
		})
		return
	}

	token := s.cfg.Token()
	if token == "" {
		s.fail(MsgMustLogIn)
		return
	}

	pos, err := s.cfg.Geo.CurrentPosition(ctx)
	if err != nil {
		if errors.Is(err, geo.ErrUnsupported) {
			s.fail(MsgNoGeolocation)
		} else {
			s.fail(err.Error())
		}
		return
	}

	err = s.cfg.Claims.Claim(ctx, token, ClaimRequest{
		QRCode:    result.Value,
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
	})
	if err != nil {
		s.fail(classifyClaimError(err))
		return
	}

	s.finish(func() {
		if s.cfg.OnSuccess != nil {
			s.cfg.OnSuccess()
		}
	})
}

// Retry re-arms the decode guard and restarts the decoder after an error.
func (s *Session) Retry() error {
	s.mu.Lock()
	if s.state != StateError {
		s.mu.Unlock()
		return errors.New("nothing to retry")
	}
	s.decoded = false
	s.errMsg = ""
	s.mu.Unlock()

	if err := s.cfg.Decoder.Start(func(text string) {
		s.HandleDecode(context.Background(), text)
	}); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = StateCameraActive
	s.mu.Unlock()
	return nil
}

// Close stops the decoder and resets ephemeral state. A claim still in
// flight settles on its own; its result is discarded.
func (s *Session) Close() {
	s.mu.Lock()
	alreadyClosed := s.state == StateClosed
	s.state = StateClosed
	s.decoded = false
	s.errMsg = ""
	s.mu.Unlock()

	if !alreadyClosed {
		s.cfg.Decoder.Stop()
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ErrorMessage returns the current user-facing error, empty outside the
// error state.
func (s *Session) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// fail moves the session to the error state unless it was closed while the
// claim was in flight, in which case the stale result is dropped.
func (s *Session) fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.state = StateError
	s.errMsg = msg
}

// finish runs the terminal callback and closes the session, unless the UI
// already closed underneath the in-flight work.
func (s *Session) finish(callback func()) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	s.mu.Unlock()

	callback()
}

// classifyClaimError maps a rejected claim to the user-facing message:
// forbidden status or location/restaurant wording means the device is not
// physically at the restaurant, anything else surfaces verbatim.
func classifyClaimError(err error) string {
	var ce *ClaimError
	if errors.As(err, &ce) {
		if ce.StatusCode == http.StatusForbidden || mentionsLocation(ce.Message) {
			return MsgNotAtRestaurant
		}
		return ce.Error()
	}
	if mentionsLocation(err.Error()) {
		return MsgNotAtRestaurant
	}
	return err.Error()
}

func mentionsLocation(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "location") || strings.Contains(lower, "restaurant")
}
