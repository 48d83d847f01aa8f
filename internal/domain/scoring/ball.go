package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedBall is returned for any string outside the ball event grammar.
var ErrMalformedBall = errors.New("malformed ball event")

// Kind identifies the delivery type of a ball event.
type Kind string

const (
	KindRuns   Kind = "runs"
	KindWide   Kind = "wide"
	KindNoBall Kind = "noball"
)

const (
	tagWicket = "W"
	tagWide   = "WD"
	tagNoBall = "NB"
	separator = "+"
)

// BallEvent is one atomic scoring action.
// Runs holds the runs taken on the delivery, excluding the one-run penalty of a wide or no-ball.
// Build values with ParseBall or ManualBall; the zero value is a dot ball.
type BallEvent struct {
	Kind   Kind
	Runs   int
	Wicket bool
}

// Dot returns a legal delivery with no runs.
func Dot() BallEvent { return BallEvent{Kind: KindRuns} }

// RunsOff returns a legal delivery worth n runs.
func RunsOff(n int) BallEvent { return BallEvent{Kind: KindRuns, Runs: n} }

// Wicket returns a legal delivery on which a batter was dismissed after n completed runs.
func Wicket(n int) BallEvent { return BallEvent{Kind: KindRuns, Runs: n, Wicket: true} }

// Wide returns a wide with n additional running runs.
func Wide(n int) BallEvent { return BallEvent{Kind: KindWide, Runs: n} }

// NoBall returns a no-ball with n runs off the bat or overthrows.
func NoBall(n int) BallEvent { return BallEvent{Kind: KindNoBall, Runs: n} }

// Legal reports whether the event consumes one of the innings' legal deliveries.
// A run-out off a no-ball still completes the delivery; a wicket on a wide does not.
func (b BallEvent) Legal() bool {
	switch b.kind() {
	case KindWide:
		return false
	case KindNoBall:
		return b.Wicket
	case KindRuns:
		return true
	default:
		return false
	}
}

// Validate reports ErrMalformedBall for an unknown kind or negative runs.
func (b BallEvent) Validate() error {
	switch b.kind() {
	case KindRuns, KindWide, KindNoBall:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrMalformedBall, string(b.Kind))
	}
	if b.Runs < 0 {
		return fmt.Errorf("%w: negative runs %d", ErrMalformedBall, b.Runs)
	}
	return nil
}

// RunsAdded is the total the event adds to the batting side. Invalid events add nothing.
func (b BallEvent) RunsAdded() int {
	if b.Validate() != nil {
		return 0
	}
	if b.IsExtra() {
		return 1 + b.Runs
	}
	return b.Runs
}

// IsWicket reports whether a batter was dismissed on the event.
func (b BallEvent) IsWicket() bool { return b.Wicket && b.Validate() == nil }

// IsExtra reports whether the event is a wide or a no-ball.
func (b BallEvent) IsExtra() bool {
	k := b.kind()
	return k == KindWide || k == KindNoBall
}

// String returns the canonical tagged encoding, e.g. "4", "W+1", "NB+W".
// Invalid events render as "?".
func (b BallEvent) String() string {
	if b.Validate() != nil {
		return "?"
	}
	switch b.kind() {
	case KindWide:
		return extraString(tagWide, b)
	case KindNoBall:
		return extraString(tagNoBall, b)
	default:
		if !b.Wicket {
			return strconv.Itoa(b.Runs)
		}
		if b.Runs == 0 {
			return tagWicket
		}
		return tagWicket + separator + strconv.Itoa(b.Runs)
	}
}

func extraString(tag string, b BallEvent) string {
	s := tag
	if b.Wicket {
		s += separator + tagWicket
	}
	if b.Runs > 0 {
		s += separator + strconv.Itoa(b.Runs)
	}
	return s
}

func (b BallEvent) kind() Kind {
	if b.Kind == "" {
		return KindRuns
	}
	return b.Kind
}

// MarshalJSON encodes the event as its canonical string.
func (b BallEvent) MarshalJSON() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(b.String())
}

// UnmarshalJSON decodes a tagged string, failing on anything ParseBall rejects.
func (b *BallEvent) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedBall, string(data))
	}
	ev, err := ParseBall(raw)
	if err != nil {
		return err
	}
	*b = ev
	return nil
}

// ParseBall decodes a tagged ball event string.
//
// Accepted forms, with n any non-negative integer:
//
//	n  W  W+n  WD  WD+n  WD+W  NB  NB+n  NB+W  NB+W+n
//
// Tags are case-insensitive and surrounding whitespace is ignored.
func ParseBall(raw string) (BallEvent, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	parts := strings.Split(s, separator)
	fail := func() (BallEvent, error) {
		return BallEvent{}, fmt.Errorf("%w: %q", ErrMalformedBall, raw)
	}

	switch parts[0] {
	case tagWicket:
		switch len(parts) {
		case 1:
			return Wicket(0), nil
		case 2:
			n, ok := parseRuns(parts[1])
			if !ok {
				return fail()
			}
			return Wicket(n), nil
		}
		return fail()

	case tagWide:
		switch len(parts) {
		case 1:
			return Wide(0), nil
		case 2:
			if parts[1] == tagWicket {
				return BallEvent{Kind: KindWide, Wicket: true}, nil
			}
			n, ok := parseRuns(parts[1])
			if !ok {
				return fail()
			}
			return Wide(n), nil
		}
		return fail()

	case tagNoBall:
		switch len(parts) {
		case 1:
			return NoBall(0), nil
		case 2:
			if parts[1] == tagWicket {
				return BallEvent{Kind: KindNoBall, Wicket: true}, nil
			}
			n, ok := parseRuns(parts[1])
			if !ok {
				return fail()
			}
			return NoBall(n), nil
		case 3:
			if parts[1] != tagWicket {
				return fail()
			}
			n, ok := parseRuns(parts[2])
			if !ok {
				return fail()
			}
			return BallEvent{Kind: KindNoBall, Runs: n, Wicket: true}, nil
		}
		return fail()

	default:
		if len(parts) != 1 {
			return fail()
		}
		n, ok := parseRuns(parts[0])
		if !ok {
			return fail()
		}
		return RunsOff(n), nil
	}
}

// ManualBall builds an operator-entered correction. extra is "none" (or empty), "nb" or "wd".
func ManualBall(runs string, extra string) (BallEvent, error) {
	n, ok := parseRuns(strings.TrimSpace(runs))
	if !ok {
		return BallEvent{}, fmt.Errorf("%w: manual runs %q", ErrMalformedBall, runs)
	}
	switch strings.ToLower(strings.TrimSpace(extra)) {
	case "", "none":
		return RunsOff(n), nil
	case "nb":
		return NoBall(n), nil
	case "wd":
		return Wide(n), nil
	default:
		return BallEvent{}, fmt.Errorf("%w: manual extra %q", ErrMalformedBall, extra)
	}
}

func parseRuns(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
