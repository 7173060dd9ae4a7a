package analytics

import (
	"fmt"
	"strings"
)

// StubMethod places the irregular period of a schedule at the front or back
// and makes it short or long.
type StubMethod struct {
	Front bool
	Long  bool
}

// ParseStubMethod reads the compact stub notation: f/s, f/l, b/s or b/l.
// A lone F or B means a short stub at that end.
func ParseStubMethod(s string) (StubMethod, error) {
	key := fold.String(strings.TrimSpace(s))
	parts := strings.SplitN(key, "/", 2)
	var st StubMethod
	switch parts[0] {
	case "f", "front":
		st.Front = true
	case "b", "back":
	default:
		return StubMethod{}, fmt.Errorf("invalid stub method %q", s)
	}
	if len(parts) == 2 {
		switch parts[1] {
		case "s", "short":
		case "l", "long":
			st.Long = true
		default:
			return StubMethod{}, fmt.Errorf("invalid stub method %q", s)
		}
	}
	return st, nil
}

func (s StubMethod) String() string {
	end, length := "b", "s"
	if s.Front {
		end = "f"
	}
	if s.Long {
		length = "l"
	}
	return end + "/" + length
}
