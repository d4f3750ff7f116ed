package sync

import (
	"net/http"
	"testing"
	"time"

	"go.uber.org/goleak"
)

// testClient disables keep-alives so finished requests leave no idle
// connection goroutines behind for goleak to trip on.
var testClient = &http.Client{
	Timeout: 10 * time.Second,
	Transport: &http.Transport{
		DisableKeepAlives: true,
	},
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
