package service

import (
	"testing"

	"github.com/chngmn/Quizly-server/internal/models"
)

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		in   string
		want models.Gender
	}{
		{"남성", models.GenderMale},
		{"남자", models.GenderMale},
		{"Male", models.GenderMale},
		{" M ", models.GenderMale},
		{"여성", models.GenderFemale},
		{"female", models.GenderFemale},
		{"F", models.GenderFemale},
		{"other", models.GenderOther},
		{"", models.GenderOther},
		{"non-binary", models.GenderOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeGender(tt.in); got != tt.want {
				t.Errorf("NormalizeGender(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeSchool(t *testing.T) {
	tests := []struct {
		in   string
		want models.School
	}{
		{"서울대학교", models.SchoolSeoulNational},
		{"seoul_national", models.SchoolSeoulNational},
		{"연세대", models.SchoolYonsei},
		{"KAIST", models.SchoolKaist},
		{"한국과학기술원", models.SchoolKaist},
		{"성균관 대학교", models.SchoolSungkyunkwan},
		{"Hanyang", models.SchoolHanyang},
		{"하버드", models.SchoolOther},
		{"", models.SchoolOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeSchool(tt.in); got != tt.want {
				t.Errorf("NormalizeSchool(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizationIsTotal(t *testing.T) {
	valid := map[models.School]bool{}
	for _, s := range schoolTable {
		valid[s] = true
	}
	for _, in := range []string{"x", "123", "서울", "yonsei university"} {
		if got := NormalizeSchool(in); !valid[got] {
			t.Errorf("NormalizeSchool(%q) produced unknown code %q", in, got)
		}
	}
}
