package patient

import "strconv"

// Form is the raw payload of the assessment form. Selections arrive as
// either the option code or its label; measurements arrive as numbers.
type Form struct {
	Age               *float64 `form:"age" json:"age" binding:"required"`
	Sex               string   `form:"sex" json:"sex" binding:"required"`
	ChestPain         string   `form:"cp" json:"cp" binding:"required"`
	RestingBP         *float64 `form:"trestbps" json:"trestbps" binding:"required"`
	Cholesterol       *float64 `form:"chol" json:"chol" binding:"required"`
	FastingBloodSugar string   `form:"fbs" json:"fbs" binding:"required"`
	RestECG           string   `form:"restecg" json:"restecg" binding:"required"`
	MaxHeartRate      *float64 `form:"thalch" json:"thalch" binding:"required"`
	ExerciseAngina    string   `form:"exang" json:"exang" binding:"required"`
	Oldpeak           *float64 `form:"oldpeak" json:"oldpeak" binding:"required"`
	Slope             string   `form:"slope" json:"slope" binding:"required"`
	MajorVessels      string   `form:"ca" json:"ca" binding:"required"`
	Thal              string   `form:"thal" json:"thal" binding:"required"`
}

// Decode turns the form into an Input. Integer measurements must be whole
// numbers; the first failing field is reported.
func (f Form) Decode() (Input, error) {
	var (
		in  Input
		err error
	)
	if in.Age, err = wholeNumber(FieldAge, f.Age); err != nil {
		return Input{}, err
	}
	if in.Sex, err = DecodeSex(f.Sex); err != nil {
		return Input{}, err
	}
	if in.ChestPain, err = DecodeChestPain(f.ChestPain); err != nil {
		return Input{}, err
	}
	if in.RestingBP, err = wholeNumber(FieldRestingBP, f.RestingBP); err != nil {
		return Input{}, err
	}
	if in.Cholesterol, err = wholeNumber(FieldCholesterol, f.Cholesterol); err != nil {
		return Input{}, err
	}
	if in.FastingBloodSugar, err = DecodeFastingBloodSugar(f.FastingBloodSugar); err != nil {
		return Input{}, err
	}
	if in.RestECG, err = DecodeRestECG(f.RestECG); err != nil {
		return Input{}, err
	}
	if in.MaxHeartRate, err = wholeNumber(FieldMaxHeartRate, f.MaxHeartRate); err != nil {
		return Input{}, err
	}
	if in.ExerciseAngina, err = DecodeExerciseAngina(f.ExerciseAngina); err != nil {
		return Input{}, err
	}
	if f.Oldpeak == nil {
		return Input{}, &ValidationError{Fields: []FieldError{{Field: FieldOldpeak, Message: "is required"}}}
	}
	in.Oldpeak = *f.Oldpeak
	if in.Slope, err = DecodeSlope(f.Slope); err != nil {
		return Input{}, err
	}
	if in.MajorVessels, err = DecodeMajorVessels(f.MajorVessels); err != nil {
		return Input{}, err
	}
	if in.Thal, err = DecodeThal(f.Thal); err != nil {
		return Input{}, err
	}
	return in, nil
}

// Partial keeps every field of f that decodes and falls back to Defaults for
// the rest. It is used to redisplay a rejected submission.
func (f Form) Partial() Input {
	in := Defaults()
	keep(&in.Age)(wholeNumber(FieldAge, f.Age))
	keep(&in.Sex)(DecodeSex(f.Sex))
	keep(&in.ChestPain)(DecodeChestPain(f.ChestPain))
	keep(&in.RestingBP)(wholeNumber(FieldRestingBP, f.RestingBP))
	keep(&in.Cholesterol)(wholeNumber(FieldCholesterol, f.Cholesterol))
	keep(&in.FastingBloodSugar)(DecodeFastingBloodSugar(f.FastingBloodSugar))
	keep(&in.RestECG)(DecodeRestECG(f.RestECG))
	keep(&in.MaxHeartRate)(wholeNumber(FieldMaxHeartRate, f.MaxHeartRate))
	keep(&in.ExerciseAngina)(DecodeExerciseAngina(f.ExerciseAngina))
	if f.Oldpeak != nil {
		in.Oldpeak = *f.Oldpeak
	}
	keep(&in.Slope)(DecodeSlope(f.Slope))
	keep(&in.MajorVessels)(DecodeMajorVessels(f.MajorVessels))
	keep(&in.Thal)(DecodeThal(f.Thal))
	return in
}

// keep returns a setter that stores v in dst only when err is nil.
func keep[T any](dst *T) func(v T, err error) {
	return func(v T, err error) {
		if err == nil {
			*dst = v
		}
	}
}

// FormFor renders an Input back into form values, using option codes.
func FormFor(in Input) Form {
	num := func(v float64) *float64 { return &v }
	code := func(v int) string { return strconv.Itoa(v) }
	return Form{
		Age:               num(float64(in.Age)),
		Sex:               code(int(in.Sex)),
		ChestPain:         code(int(in.ChestPain)),
		RestingBP:         num(float64(in.RestingBP)),
		Cholesterol:       num(float64(in.Cholesterol)),
		FastingBloodSugar: code(int(in.FastingBloodSugar)),
		RestECG:           code(int(in.RestECG)),
		MaxHeartRate:      num(float64(in.MaxHeartRate)),
		ExerciseAngina:    code(int(in.ExerciseAngina)),
		Oldpeak:           num(in.Oldpeak),
		Slope:             code(int(in.Slope)),
		MajorVessels:      code(int(in.MajorVessels)),
		Thal:              code(int(in.Thal)),
	}
}

func wholeNumber(field string, v *float64) (int, error) {
	if v == nil {
		return 0, &ValidationError{Fields: []FieldError{{Field: field, Message: "is required"}}}
	}
	n := int(*v)
	if float64(n) != *v {
		return 0, &ValidationError{Fields: []FieldError{{Field: field, Message: "must be a whole number"}}}
	}
	return n, nil
}
