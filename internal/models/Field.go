package models

// Field names a translatable route field. The value is also used in audio file names.
type Field string

const (
	FieldTrainNumber  Field = "train_number"
	FieldTrainName    Field = "train_name"
	FieldStartStation Field = "start_station"
	FieldEndStation   Field = "end_station"
)

// Fields lists route fields in announcement order.
var Fields = []Field{FieldTrainNumber, FieldTrainName, FieldStartStation, FieldEndStation}

// Source returns the untranslated value of f on the route.
func (r Route) Source(f Field) string {
	switch f {
	case FieldTrainNumber:
		return r.TrainNumber
	case FieldTrainName:
		return r.TrainName
	case FieldStartStation:
		return r.StartStation
	case FieldEndStation:
		return r.EndStation
	}
	return ""
}
