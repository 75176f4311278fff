package patient

import (
	"strconv"
	"strings"
)

// Option pairs a categorical code with the label shown in the form.
type Option[T ~int] struct {
	Code  T
	Label string
}

type Sex int

const (
	Female Sex = 0
	Male   Sex = 1
)

type ChestPain int

const (
	TypicalAngina  ChestPain = 0
	AtypicalAngina ChestPain = 1
	NonAnginalPain ChestPain = 2
	Asymptomatic   ChestPain = 3
)

// FastingBloodSugar flags fasting blood sugar above 120 mg/dl.
type FastingBloodSugar int

const (
	FBSNormal   FastingBloodSugar = 0
	FBSElevated FastingBloodSugar = 1
)

type RestECG int

const (
	ECGNormal         RestECG = 0
	ECGSTTAbnormality RestECG = 1
	ECGLVHypertrophy  RestECG = 2
)

type ExerciseAngina int

const (
	NoExerciseAngina ExerciseAngina = 0
	ExerciseInduced  ExerciseAngina = 1
)

// Slope of the peak exercise ST segment.
type Slope int

const (
	Upsloping   Slope = 0
	Flat        Slope = 1
	Downsloping Slope = 2
)

// MajorVessels is the number of major vessels colored by fluoroscopy.
type MajorVessels int

type Thal int

const (
	ThalNormal     Thal = 1
	ThalFixed      Thal = 2
	ThalReversible Thal = 3
)

// Option tables, in the order they are offered. The first entry is the
// form default.
var (
	SexOptions = []Option[Sex]{
		{Male, "Male (1)"},
		{Female, "Female (0)"},
	}
	ChestPainOptions = []Option[ChestPain]{
		{TypicalAngina, "0 – Typical Angina"},
		{AtypicalAngina, "1 – Atypical Angina"},
		{NonAnginalPain, "2 – Non-anginal Pain"},
		{Asymptomatic, "3 – Asymptomatic"},
	}
	FastingBloodSugarOptions = []Option[FastingBloodSugar]{
		{FBSNormal, "0 – No"},
		{FBSElevated, "1 – Yes"},
	}
	RestECGOptions = []Option[RestECG]{
		{ECGNormal, "0 – Normal"},
		{ECGSTTAbnormality, "1 – ST-T abnormality"},
		{ECGLVHypertrophy, "2 – LV Hypertrophy"},
	}
	ExerciseAnginaOptions = []Option[ExerciseAngina]{
		{NoExerciseAngina, "0 – No"},
		{ExerciseInduced, "1 – Yes"},
	}
	SlopeOptions = []Option[Slope]{
		{Upsloping, "0 – Upsloping"},
		{Flat, "1 – Flat"},
		{Downsloping, "2 – Downsloping"},
	}
	MajorVesselsOptions = []Option[MajorVessels]{
		{0, "0"},
		{1, "1"},
		{2, "2"},
		{3, "3"},
	}
	ThalOptions = []Option[Thal]{
		{ThalNormal, "1 – Normal"},
		{ThalFixed, "2 – Fixed Defect"},
		{ThalReversible, "3 – Reversible Defect"},
	}
)

// decode resolves a selection given either as the numeric code or as the
// exact option label.
func decode[T ~int](field string, opts []Option[T], selection string) (T, error) {
	s := strings.TrimSpace(selection)
	if code, err := strconv.Atoi(s); err == nil {
		for _, o := range opts {
			if int(o.Code) == code {
				return o.Code, nil
			}
		}
	} else {
		for _, o := range opts {
			if o.Label == s {
				return o.Code, nil
			}
		}
	}
	var zero T
	return zero, &MalformedSelectionError{Field: field, Value: selection}
}

func label[T ~int](opts []Option[T], code T) string {
	for _, o := range opts {
		if o.Code == code {
			return o.Label
		}
	}
	return strconv.Itoa(int(code))
}

func valid[T ~int](opts []Option[T], code T) bool {
	for _, o := range opts {
		if o.Code == code {
			return true
		}
	}
	return false
}

func DecodeSex(s string) (Sex, error) { return decode(FieldSex, SexOptions, s) }

func DecodeChestPain(s string) (ChestPain, error) { return decode(FieldChestPain, ChestPainOptions, s) }

func DecodeFastingBloodSugar(s string) (FastingBloodSugar, error) {
	return decode(FieldFastingBloodSugar, FastingBloodSugarOptions, s)
}

func DecodeRestECG(s string) (RestECG, error) { return decode(FieldRestECG, RestECGOptions, s) }

func DecodeExerciseAngina(s string) (ExerciseAngina, error) {
	return decode(FieldExerciseAngina, ExerciseAnginaOptions, s)
}

func DecodeSlope(s string) (Slope, error) { return decode(FieldSlope, SlopeOptions, s) }

func DecodeMajorVessels(s string) (MajorVessels, error) {
	return decode(FieldMajorVessels, MajorVesselsOptions, s)
}

func DecodeThal(s string) (Thal, error) { return decode(FieldThal, ThalOptions, s) }

func (v Sex) Label() string               { return label(SexOptions, v) }
func (v ChestPain) Label() string         { return label(ChestPainOptions, v) }
func (v FastingBloodSugar) Label() string { return label(FastingBloodSugarOptions, v) }
func (v RestECG) Label() string           { return label(RestECGOptions, v) }
func (v ExerciseAngina) Label() string    { return label(ExerciseAnginaOptions, v) }
func (v Slope) Label() string             { return label(SlopeOptions, v) }
func (v MajorVessels) Label() string      { return label(MajorVesselsOptions, v) }
func (v Thal) Label() string              { return label(ThalOptions, v) }
