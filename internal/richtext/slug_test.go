package richtext

import "testing"

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Priser og betingelser", "priser-og-betingelser"},
		{"  Afregning & priser 2024  ", "afregning-priser-2024"},
		{"Rest- og biprodukter", "rest-og-biprodukter"},
		{"Økologisk ærtestivelse", "økologisk-ærtestivelse"},
		{"---", ""},
		{"", ""},
		{"Flere   mellemrum", "flere-mellemrum"},
		{"AKD_intern notat", "akd_intern-notat"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Priser og betingelser",
		"Afregning & priser 2024",
		"Økologisk ærtestivelse",
	}
	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Fatalf("Slugify not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}
