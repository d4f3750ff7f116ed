package sync

import "testing"

func TestBuildHandoffURL(t *testing.T) {
	got := BuildHandoffURL("https://app.oppla.ai", "tok123", 54321)
	want := "https://app.oppla.ai/home/ide?token=tok123&callback_port=54321"
	if got != want {
		t.Errorf("BuildHandoffURL = %q, want %q", got, want)
	}
}

func TestBuildHandoffURLTrimsTrailingSlash(t *testing.T) {
	got := BuildHandoffURL("https://app.oppla.ai/", "tok123", 80)
	want := "https://app.oppla.ai/home/ide?token=tok123&callback_port=80"
	if got != want {
		t.Errorf("BuildHandoffURL = %q, want %q", got, want)
	}
}

func TestBuildHandoffURLEscapesToken(t *testing.T) {
	got := BuildHandoffURL("https://app.oppla.ai", "a b&c", 1)
	want := "https://app.oppla.ai/home/ide?token=a+b%26c&callback_port=1"
	if got != want {
		t.Errorf("BuildHandoffURL = %q, want %q", got, want)
	}
}

func TestSignInURL(t *testing.T) {
	if got := SignInURL("https://app.oppla.ai/"); got != "https://app.oppla.ai/auth/sign-in" {
		t.Errorf("SignInURL = %q", got)
	}
}
