package patient

// Control kinds.
const (
	KindSelect = "select"
	KindRange  = "range"
)

// Choice is one entry of a select control.
type Choice struct {
	Value    int    `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// Control describes one form widget.
type Control struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Kind    string   `json:"kind"`
	Choices []Choice `json:"choices,omitempty"`
	Range   *Range   `json:"range,omitempty"`
	Value   float64  `json:"value"`
}

func choices[T ~int](opts []Option[T], current T) []Choice {
	out := make([]Choice, 0, len(opts))
	for _, o := range opts {
		out = append(out, Choice{Value: int(o.Code), Label: o.Label, Selected: o.Code == current})
	}
	return out
}

func selectControl[T ~int](name, label string, opts []Option[T], current T) Control {
	return Control{Name: name, Label: label, Kind: KindSelect, Choices: choices(opts, current), Value: float64(current)}
}

func rangeControl(name, label string, r Range, current float64) Control {
	rr := r
	return Control{Name: name, Label: label, Kind: KindRange, Range: &rr, Value: current}
}

// SelectionControls returns the eight categorical controls with in's
// values selected.
func SelectionControls(in Input) []Control {
	return []Control{
		selectControl(FieldSex, "Sex", SexOptions, in.Sex),
		selectControl(FieldChestPain, "Chest Pain Type", ChestPainOptions, in.ChestPain),
		selectControl(FieldFastingBloodSugar, "Fasting Blood Sugar > 120 mg/dl", FastingBloodSugarOptions, in.FastingBloodSugar),
		selectControl(FieldRestECG, "Resting ECG", RestECGOptions, in.RestECG),
		selectControl(FieldExerciseAngina, "Exercise Induced Angina", ExerciseAnginaOptions, in.ExerciseAngina),
		selectControl(FieldSlope, "Slope of ST Segment", SlopeOptions, in.Slope),
		selectControl(FieldMajorVessels, "Major Vessels", MajorVesselsOptions, in.MajorVessels),
		selectControl(FieldThal, "Thalassemia", ThalOptions, in.Thal),
	}
}

// MeasurementControls returns the five bounded numeric controls.
func MeasurementControls(in Input) []Control {
	return []Control{
		rangeControl(FieldAge, "Age (years)", AgeRange, float64(in.Age)),
		rangeControl(FieldRestingBP, "Resting Blood Pressure (mmHg)", RestingBPRange, float64(in.RestingBP)),
		rangeControl(FieldCholesterol, "Cholesterol (mg/dl)", CholesterolRange, float64(in.Cholesterol)),
		rangeControl(FieldMaxHeartRate, "Maximum Heart Rate", MaxHeartRateRange, float64(in.MaxHeartRate)),
		rangeControl(FieldOldpeak, "ST Depression (Oldpeak)", OldpeakRange, in.Oldpeak),
	}
}

// Schema lists every control with its default value.
func Schema() []Control {
	d := Defaults()
	return append(SelectionControls(d), MeasurementControls(d)...)
}
