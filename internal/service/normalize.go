package service

import (
	"strings"

	"github.com/chngmn/Quizly-server/internal/models"
)

var genderTable = map[string]models.Gender{
	"male":   models.GenderMale,
	"m":      models.GenderMale,
	"man":    models.GenderMale,
	"남":      models.GenderMale,
	"남성":     models.GenderMale,
	"남자":     models.GenderMale,
	"female": models.GenderFemale,
	"f":      models.GenderFemale,
	"woman":  models.GenderFemale,
	"여":      models.GenderFemale,
	"여성":     models.GenderFemale,
	"여자":     models.GenderFemale,
	"other":  models.GenderOther,
	"기타":     models.GenderOther,
}

var schoolTable = map[string]models.School{
	"seoul_national": models.SchoolSeoulNational,
	"서울대학교":          models.SchoolSeoulNational,
	"서울대":            models.SchoolSeoulNational,
	"yonsei":         models.SchoolYonsei,
	"연세대학교":          models.SchoolYonsei,
	"연세대":            models.SchoolYonsei,
	"korea":          models.SchoolKorea,
	"고려대학교":          models.SchoolKorea,
	"고려대":            models.SchoolKorea,
	"sungkyunkwan":   models.SchoolSungkyunkwan,
	"성균관대학교":         models.SchoolSungkyunkwan,
	"성균관대":           models.SchoolSungkyunkwan,
	"hanyang":        models.SchoolHanyang,
	"한양대학교":          models.SchoolHanyang,
	"한양대":            models.SchoolHanyang,
	"kyunghee":       models.SchoolKyunghee,
	"경희대학교":          models.SchoolKyunghee,
	"경희대":            models.SchoolKyunghee,
	"sogang":         models.SchoolSogang,
	"서강대학교":          models.SchoolSogang,
	"서강대":            models.SchoolSogang,
	"hongik":         models.SchoolHongik,
	"홍익대학교":          models.SchoolHongik,
	"홍익대":            models.SchoolHongik,
	"dongguk":        models.SchoolDongguk,
	"동국대학교":          models.SchoolDongguk,
	"동국대":            models.SchoolDongguk,
	"chungang":       models.SchoolChungang,
	"중앙대학교":          models.SchoolChungang,
	"중앙대":            models.SchoolChungang,
	"kookmin":        models.SchoolKookmin,
	"국민대학교":          models.SchoolKookmin,
	"국민대":            models.SchoolKookmin,
	"sejong":         models.SchoolSejong,
	"세종대학교":          models.SchoolSejong,
	"세종대":            models.SchoolSejong,
	"konkuk":         models.SchoolKonkuk,
	"건국대학교":          models.SchoolKonkuk,
	"건국대":            models.SchoolKonkuk,
	"kaist":          models.SchoolKaist,
	"카이스트":           models.SchoolKaist,
	"한국과학기술원":        models.SchoolKaist,
	"other":          models.SchoolOther,
	"기타":             models.SchoolOther,
}

// NormalizeGender maps free text to a gender code, falling back to other.
func NormalizeGender(s string) models.Gender {
	if g, ok := genderTable[normalizeKey(s)]; ok {
		return g
	}
	return models.GenderOther
}

// NormalizeSchool maps a school name or code to its code, falling back to
// other.
func NormalizeSchool(s string) models.School {
	if school, ok := schoolTable[normalizeKey(s)]; ok {
		return school
	}
	return models.SchoolOther
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
