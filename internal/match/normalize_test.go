package match

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "CMMC Certified", "cmmc certified"},
		{"collapses whitespace", "NIST\t 800-171\n aligned", "nist 800-171 aligned"},
		{"empty", "", ""},
		{"strips markup", "<p>DFARS <b>compliant</b></p>", "dfars compliant"},
		{"nfkc folds fullwidth", "ＤoD", "dod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripMarkup_PlainTextUntouched(t *testing.T) {
	in := "no markup here, 100% plain"
	if got := StripMarkup(in); got != in {
		t.Errorf("plain text changed: %q", got)
	}
}

func TestStripMarkup_SkipsScript(t *testing.T) {
	in := "<html><body><script>alert(1)</script>visible</body></html>"
	got := StripMarkup(in)
	if got != "visible" {
		t.Errorf("StripMarkup = %q, want %q", got, "visible")
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"words", "cmmc certified", []string{"cmmc", "certified"}},
		{"keeps internal hyphen", "nist 800-171 aligned", []string{"nist", "800-171", "aligned"}},
		{"splits on slash", "uav/uas platforms", []string{"uav", "uas", "platforms"}},
		{"strips punctuation", "compliant, certified.", []string{"compliant", "certified"}},
		{"trims edge hyphens", "-rf- payloads", []string{"rf", "payloads"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
