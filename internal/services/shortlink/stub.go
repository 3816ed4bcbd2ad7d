package shortlink

import "context"

// StubLink is returned by Stub for every title.
const StubLink = "https://ablink.io/test-link"

// Stub is a Creator that never touches the network. Used by --test runs.
type Stub struct{}

func (Stub) Create(context.Context, string) (string, error) {
	return StubLink, nil
}
