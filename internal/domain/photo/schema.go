package photo

// Recognized metadata field names, as the model is asked to emit them.
const (
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldPerson          = "person"
	FieldDeviceType      = "deviceType"
	FieldAppName         = "appName"
	FieldLocalFolderName = "localFolderName"
	FieldLatitude        = "latitude"
	FieldLongitude       = "longitude"
	FieldAltitude        = "altitude"
	FieldTimestamp       = "timestamp"
	FieldTimestampBefore = "timestamp_before"
	FieldTimestampAfter  = "timestamp_after"
)

// Payload keys stored alongside each photo point.
const (
	PayloadURL     = "url"
	PayloadSummary = "summary"
	// PayloadPersons holds recognized names, lower-cased.
	PayloadPersons = "persons"
)

// FieldDescriptor names a recognized field and describes it for the model.
type FieldDescriptor struct {
	Name        string
	Description string
}

var schema = []FieldDescriptor{
	{FieldTitle, "title of the image file"},
	{FieldDescription, "description of the image"},
	{FieldPerson, "full name of a person recognized in the image (e.g., 'john doe')"},
	{FieldDeviceType, "type of device (e.g., ANDROID_PHONE, IPHONE)"},
	{FieldAppName, "application used to upload the photo"},
	{FieldLocalFolderName, "folder name on device where photo was stored"},
	{FieldLatitude, "latitude where the photo was taken"},
	{FieldLongitude, "longitude where the photo was taken"},
	{FieldAltitude, "altitude where the photo was taken"},
	{FieldTimestamp, "exact UNIX timestamp (seconds) when the photo was taken"},
	{FieldTimestampBefore, "UNIX timestamp (seconds); the photo was taken at or before this time"},
	{FieldTimestampAfter, "UNIX timestamp (seconds); the photo was taken at or after this time"},
}

// Schema returns the fixed field schema in prompt order.
func Schema() []FieldDescriptor {
	out := make([]FieldDescriptor, len(schema))
	copy(out, schema)
	return out
}
