package model

type PositionVisibility struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
	Presence   float64 `json:"presence"`
}

type Quaternion struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	W          float64 `json:"w"`
	Visibility float64 `json:"visibility"`
}

type Frame struct {
	Confidential float64                       `json:"conf"`
	Joints       map[string]PositionVisibility `json:"joints"`
}

type Frames struct {
	Path   string
	Frames map[int]*Frame `json:"frames"`
}

type RotationFrame struct {
	Rotations map[string]Quaternion `json:"rotations"`
}

type RotationFrames struct {
	Path   string
	Frames map[int]*RotationFrame `json:"frames"`
}
