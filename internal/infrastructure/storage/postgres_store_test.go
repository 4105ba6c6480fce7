package storage

import "testing"

func TestMimeFromFilename(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"photo.jpg":    "image/jpeg",
		"PHOTO.JPG":    "image/jpeg",
		"diagram.png":  "image/png",
		"clip.mp4":     "video/mp4",
		"no-extension": "application/octet-stream",
	}

	for filename, want := range cases {
		if got := mimeFromFilename(filename); got != want {
			t.Fatalf("mimeFromFilename(%q) = %q, want %q", filename, got, want)
		}
	}
}
