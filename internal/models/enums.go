package models

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type School string

const (
	SchoolSeoulNational School = "seoul_national"
	SchoolYonsei        School = "yonsei"
	SchoolKorea         School = "korea"
	SchoolSungkyunkwan  School = "sungkyunkwan"
	SchoolHanyang       School = "hanyang"
	SchoolKyunghee      School = "kyunghee"
	SchoolSogang        School = "sogang"
	SchoolHongik        School = "hongik"
	SchoolDongguk       School = "dongguk"
	SchoolChungang      School = "chungang"
	SchoolKookmin       School = "kookmin"
	SchoolSejong        School = "sejong"
	SchoolKonkuk        School = "konkuk"
	SchoolKaist         School = "kaist"
	SchoolOther         School = "other"
)

type QuizType string

const (
	QuizTypeMultiple    QuizType = "multiple"
	QuizTypeOX          QuizType = "ox"
	QuizTypeSubjective  QuizType = "subjective"
	QuizTypeExamArchive QuizType = "exam_archive"
)

func (t QuizType) Valid() bool {
	switch t {
	case QuizTypeMultiple, QuizTypeOX, QuizTypeSubjective, QuizTypeExamArchive:
		return true
	}
	return false
}

type EventType string

const (
	EventUserRegistered  EventType = "user.registered"
	EventUserDeleted     EventType = "user.deleted"
	EventQuizCreated     EventType = "quiz.created"
	EventQuizDeleted     EventType = "quiz.deleted"
	EventRecordSubmitted EventType = "record.submitted"
)
