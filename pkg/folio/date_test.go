package folio

import "testing"

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		format  string
		locale  string
		want    string
		wantErr bool
	}{
		{
			name:   "full timestamp",
			value:  "2010-05-06 07:08:09",
			format: "%Y-%m-%d %H:%M:%S",
			want:   "2010-05-06 07:08:09",
		},
		{
			name:   "default blog format",
			value:  "2010-05-06 19:08:09",
			format: "%b %d, %Y, %I:%M %p GMT",
			want:   "May 06, 2010, 07:08 PM GMT",
		},
		{
			name:   "date only",
			value:  "2010-12-25",
			format: "%d/%m/%Y",
			want:   "25/12/2010",
		},
		{
			name:   "hours and minutes",
			value:  "2010-12-25 10:30",
			format: "%H:%M",
			want:   "10:30",
		},
		{
			name:   "localized month name",
			value:  "2010-03-06",
			format: "%d %B %Y",
			locale: "de_DE.UTF-8",
			want:   "06 März 2010",
		},
		{
			name:   "language without region",
			value:  "2010-03-06",
			format: "%B",
			locale: "fr",
			want:   "mars",
		},
		{
			name:   "unknown locale falls back to English",
			value:  "2010-03-06",
			format: "%B",
			locale: "xx_YY",
			want:   "March",
		},
		{
			name:    "invalid date",
			value:   "not a date",
			format:  "%Y",
			wantErr: true,
		},
		{
			name:    "empty date",
			value:   "  ",
			format:  "%Y",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatDate(tt.value, tt.format, tt.locale)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatDate() = %q, want %q", got, tt.want)
			}
		})
	}
}
