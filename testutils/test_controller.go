package testutils

import (
	"github.com/itbasis/go-clock"
)

// TestController bundles the collaborators a controller needs in tests: the
// shared mock clock from the TestDB and a fake backend server.
type TestController struct {
	Clock       *clock.Mock
	fakeBackend *FakeBackendServer
}

func (c *TestController) Close() {
	c.fakeBackend.Close()
}

func (c *TestController) BackendURL() string {
	return c.fakeBackend.URL()
}

func (c *TestController) Backend() *FakeBackendServer {
	return c.fakeBackend
}

func NewTestController(db *TestDB) *TestController {
	return &TestController{
		Clock:       db.Clock,
		fakeBackend: NewFakeBackendServer(),
	}
}
