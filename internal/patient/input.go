package patient

import "fmt"

// Field names, in the positional order the classifier was trained on.
const (
	FieldAge               = "age"
	FieldSex               = "sex"
	FieldChestPain         = "cp"
	FieldRestingBP         = "trestbps"
	FieldCholesterol       = "chol"
	FieldFastingBloodSugar = "fbs"
	FieldRestECG           = "restecg"
	FieldMaxHeartRate      = "thalch"
	FieldExerciseAngina    = "exang"
	FieldOldpeak           = "oldpeak"
	FieldSlope             = "slope"
	FieldMajorVessels      = "ca"
	FieldThal              = "thal"
)

// NumFeatures is the length of the feature vector.
const NumFeatures = 13

// FeatureOrder lists the column names of Vector.
var FeatureOrder = [NumFeatures]string{
	FieldAge, FieldSex, FieldChestPain, FieldRestingBP, FieldCholesterol, FieldFastingBloodSugar,
	FieldRestECG, FieldMaxHeartRate, FieldExerciseAngina, FieldOldpeak, FieldSlope,
	FieldMajorVessels, FieldThal,
}

// Range bounds a continuous measurement.
type Range struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

func (r Range) contains(v float64) bool { return v >= r.Min && v <= r.Max }

var (
	AgeRange          = Range{Min: 20, Max: 80, Step: 1, Default: 50}
	RestingBPRange    = Range{Min: 80, Max: 200, Step: 1, Default: 120}
	CholesterolRange  = Range{Min: 100, Max: 400, Step: 1, Default: 200}
	MaxHeartRateRange = Range{Min: 60, Max: 220, Step: 1, Default: 150}
	OldpeakRange      = Range{Min: 0, Max: 6, Step: 0.1, Default: 1.0}
)

// Input is one patient record as collected by the form.
type Input struct {
	Age               int               `json:"age"`
	Sex               Sex               `json:"sex"`
	ChestPain         ChestPain         `json:"cp"`
	RestingBP         int               `json:"trestbps"`
	Cholesterol       int               `json:"chol"`
	FastingBloodSugar FastingBloodSugar `json:"fbs"`
	RestECG           RestECG           `json:"restecg"`
	MaxHeartRate      int               `json:"thalch"`
	ExerciseAngina    ExerciseAngina    `json:"exang"`
	Oldpeak           float64           `json:"oldpeak"`
	Slope             Slope             `json:"slope"`
	MajorVessels      MajorVessels      `json:"ca"`
	Thal              Thal              `json:"thal"`
}

// Defaults returns the record the form starts with.
func Defaults() Input {
	return Input{
		Age:               int(AgeRange.Default),
		Sex:               SexOptions[0].Code,
		ChestPain:         ChestPainOptions[0].Code,
		RestingBP:         int(RestingBPRange.Default),
		Cholesterol:       int(CholesterolRange.Default),
		FastingBloodSugar: FastingBloodSugarOptions[0].Code,
		RestECG:           RestECGOptions[0].Code,
		MaxHeartRate:      int(MaxHeartRateRange.Default),
		ExerciseAngina:    ExerciseAnginaOptions[0].Code,
		Oldpeak:           OldpeakRange.Default,
		Slope:             SlopeOptions[0].Code,
		MajorVessels:      MajorVesselsOptions[0].Code,
		Thal:              ThalOptions[0].Code,
	}
}

// Validate checks every field against its domain.
func (in Input) Validate() error {
	var errs []FieldError
	checkRange := func(field string, r Range, v float64) {
		if !r.contains(v) {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("must be between %g and %g, got %g", r.Min, r.Max, v),
			})
		}
	}
	checkCode := func(field string, ok bool, code int) {
		if !ok {
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("unknown code %d", code)})
		}
	}

	checkRange(FieldAge, AgeRange, float64(in.Age))
	checkCode(FieldSex, valid(SexOptions, in.Sex), int(in.Sex))
	checkCode(FieldChestPain, valid(ChestPainOptions, in.ChestPain), int(in.ChestPain))
	checkRange(FieldRestingBP, RestingBPRange, float64(in.RestingBP))
	checkRange(FieldCholesterol, CholesterolRange, float64(in.Cholesterol))
	checkCode(FieldFastingBloodSugar, valid(FastingBloodSugarOptions, in.FastingBloodSugar), int(in.FastingBloodSugar))
	checkCode(FieldRestECG, valid(RestECGOptions, in.RestECG), int(in.RestECG))
	checkRange(FieldMaxHeartRate, MaxHeartRateRange, float64(in.MaxHeartRate))
	checkCode(FieldExerciseAngina, valid(ExerciseAnginaOptions, in.ExerciseAngina), int(in.ExerciseAngina))
	checkRange(FieldOldpeak, OldpeakRange, in.Oldpeak)
	checkCode(FieldSlope, valid(SlopeOptions, in.Slope), int(in.Slope))
	checkCode(FieldMajorVessels, valid(MajorVesselsOptions, in.MajorVessels), int(in.MajorVessels))
	checkCode(FieldThal, valid(ThalOptions, in.Thal), int(in.Thal))

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Vector encodes the record positionally, in FeatureOrder.
func (in Input) Vector() [NumFeatures]float64 {
	return [NumFeatures]float64{
		float64(in.Age),
		float64(in.Sex),
		float64(in.ChestPain),
		float64(in.RestingBP),
		float64(in.Cholesterol),
		float64(in.FastingBloodSugar),
		float64(in.RestECG),
		float64(in.MaxHeartRate),
		float64(in.ExerciseAngina),
		in.Oldpeak,
		float64(in.Slope),
		float64(in.MajorVessels),
		float64(in.Thal),
	}
}
