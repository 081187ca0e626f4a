package browser

import (
	"runtime"
	"testing"
)

func TestOpenSupported(t *testing.T) {
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
		if _, _, err := Command(runtime.GOOS, "http://localhost"); err != nil {
			t.Errorf("Command() error = %v", err)
		}
	default:
		t.Skipf("Unsupported platform: %s", runtime.GOOS)
	}
}

func TestCommand(t *testing.T) {
	const url = "http://jukebox.local/api/image/fetch?mrl=a"

	tests := []struct {
		goos    string
		name    string
		wantErr bool
	}{
		{"darwin", "open", false},
		{"linux", "xdg-open", false},
		{"windows", "rundll32", false},
		{"plan9", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args, err := Command(tt.goos, url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Command() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if name != tt.name {
				t.Errorf("name = %q, want %q", name, tt.name)
			}
			if len(args) == 0 || args[len(args)-1] != url {
				t.Errorf("args = %v, want url last", args)
			}
		})
	}
}
