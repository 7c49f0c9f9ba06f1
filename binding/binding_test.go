package binding

import (
	"encoding/json"
	"testing"

	"golang.org/x/text/language"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return v
}

func TestInterpolatePipes(t *testing.T) {
	data := decode(t, `{
		"first_name": "Anna",
		"last_name": "de Vries",
		"gender": "Female",
		"drivers_license": true,
		"has_transport": false,
		"date_of_birth": "1984-03-07",
		"contacts": [{"email": "a@example.com"}],
		"hours": 32,
		"empty": ""
	}`)
	b := New(data, "nl-NL")

	cases := []struct {
		in, want string
	}{
		{"${first_name} ${last_name}", "Anna de Vries"},
		{"${date_of_birth|date}", "7 maart 1984"},
		{"${drivers_license|yesno}", "Ja"},
		{"${has_transport|yesno}", "Nee"},
		{"${unknown|yesno}", "—"},
		{"${gender|checked:Female} Vrouw", "☑ Vrouw"},
		{"${gender|checked:Male} Man", "☐ Man"},
		{"${contacts[0].email}", "a@example.com"},
		{"${hours} uur per week", "32 uur per week"},
		{"${empty|default:—}", "—"},
		{"${missing|default:n.v.t.}", "n.v.t."},
		{"${missing}", "${missing}"},
		{"${first_name|upper}", "ANNA"},
	}
	for _, c := range cases {
		if got := b.Interpolate(c.in); got != c.want {
			t.Errorf("Interpolate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFillDropsMissing(t *testing.T) {
	b := New(map[string]interface{}{"a": "x"}, "")
	if got := b.Fill("${a}-${b}"); got != "x-" {
		t.Fatalf("Fill = %q", got)
	}
}

func TestTruthy(t *testing.T) {
	b := New(decode(t, `{"a": true, "b": false, "c": "", "d": "x", "e": 0, "f": [1]}`), "")
	want := map[string]bool{"a": true, "b": false, "c": false, "d": true, "e": false, "f": true, "zz": false}
	for path, w := range want {
		if got := b.Truthy(path); got != w {
			t.Errorf("Truthy(%s) = %v, want %v", path, got, w)
		}
	}
}

func TestFormatDateLocales(t *testing.T) {
	if got, ok := FormatDate("2024-11-02", language.English); !ok || got != "November 2, 2024" {
		t.Fatalf("en date = %q %v", got, ok)
	}
	if got, ok := FormatDate("2024-11-02T10:00:00Z", language.German); !ok || got != "2. November 2024" {
		t.Fatalf("de date = %q %v", got, ok)
	}
	if _, ok := FormatDate("not a date", language.Dutch); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestInterpolateWithoutData(t *testing.T) {
	if got := Interpolate("hello ${name}", nil); got != "hello ${name}" {
		t.Fatalf("got %q", got)
	}
}
