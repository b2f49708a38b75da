package kinetic

import "github.com/go-gl/mathgl/mgl64"

// Joint は骨格階層内の関節識別子
type Joint uint8

const (
	HipCentre Joint = iota
	LeftHip
	LeftKnee
	LeftAnkle
	LeftToe
	RightHip
	RightKnee
	RightAnkle
	RightToe
	Neck
	LeftShoulder
	LeftElbow
	LeftWrist
	RightShoulder
	RightElbow
	RightWrist
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftPinky
	RightPinky
	LeftEye
	RightEye
	jointCount
)

var jointNames = [jointCount]string{
	HipCentre:     "hipCentre",
	LeftHip:       "leftHip",
	LeftKnee:      "leftKnee",
	LeftAnkle:     "leftAnkle",
	LeftToe:       "leftToe",
	RightHip:      "rightHip",
	RightKnee:     "rightKnee",
	RightAnkle:    "rightAnkle",
	RightToe:      "rightToe",
	Neck:          "neck",
	LeftShoulder:  "leftShoulder",
	LeftElbow:     "leftElbow",
	LeftWrist:     "leftWrist",
	RightShoulder: "rightShoulder",
	RightElbow:    "rightElbow",
	RightWrist:    "rightWrist",
	LeftIndex:     "leftIndex",
	RightIndex:    "rightIndex",
	LeftThumb:     "leftThumb",
	RightThumb:    "rightThumb",
	LeftPinky:     "leftPinky",
	RightPinky:    "rightPinky",
	LeftEye:       "leftEye",
	RightEye:      "rightEye",
}

// 上流プロセッサの snake_case 語彙も受け付ける
var jointAliases = map[string]Joint{
	"hip_centre":     HipCentre,
	"left_hip":       LeftHip,
	"left_knee":      LeftKnee,
	"left_ankle":     LeftAnkle,
	"left_toe":       LeftToe,
	"right_hip":      RightHip,
	"right_knee":     RightKnee,
	"right_ankle":    RightAnkle,
	"right_toe":      RightToe,
	"left_shoulder":  LeftShoulder,
	"left_elbow":     LeftElbow,
	"left_wrist":     LeftWrist,
	"right_shoulder": RightShoulder,
	"right_elbow":    RightElbow,
	"right_wrist":    RightWrist,
	"left_index":     LeftIndex,
	"right_index":    RightIndex,
	"left_thumb":     LeftThumb,
	"right_thumb":    RightThumb,
	"left_pinky":     LeftPinky,
	"right_pinky":    RightPinky,
	"left_eye":       LeftEye,
	"right_eye":      RightEye,
}

func (j Joint) String() string {
	if j >= jointCount {
		return "unknown"
	}
	return jointNames[j]
}

// ParseJoint はジョイント名(snake_case別名含む)を解決する
func ParseJoint(name string) (Joint, bool) {
	for j := Joint(0); j < jointCount; j++ {
		if jointNames[j] == name {
			return j, true
		}
	}
	if j, ok := jointAliases[name]; ok {
		return j, true
	}
	return jointCount, false
}

// hierarchy はジョイントごとの祖先チェーン(直近の親が先頭、末尾がルート)。
// チェーンを持たない補助ランドマーク(親指・小指・目)は nil のまま。
var hierarchy = [jointCount][]Joint{
	LeftHip:       {HipCentre},
	LeftKnee:      {LeftHip, HipCentre},
	LeftAnkle:     {LeftKnee, LeftHip, HipCentre},
	LeftToe:       {LeftAnkle, LeftKnee, LeftHip, HipCentre},
	RightHip:      {HipCentre},
	RightKnee:     {RightHip, HipCentre},
	RightAnkle:    {RightKnee, RightHip, HipCentre},
	RightToe:      {RightAnkle, RightKnee, RightHip, HipCentre},
	Neck:          {HipCentre},
	LeftShoulder:  {Neck, HipCentre},
	LeftElbow:     {LeftShoulder, Neck, HipCentre},
	LeftWrist:     {LeftElbow, LeftShoulder, Neck, HipCentre},
	RightShoulder: {Neck, HipCentre},
	RightElbow:    {RightShoulder, Neck, HipCentre},
	RightWrist:    {RightElbow, RightShoulder, Neck, HipCentre},
	LeftIndex:     {LeftWrist, LeftElbow, LeftShoulder, Neck, HipCentre},
	RightIndex:    {RightWrist, RightElbow, RightShoulder, Neck, HipCentre},
}

// offsetDirections はバインドポーズにおける親ローカル座標系でのボーン方向。
// ルートフレームは X=右股関節方向, Y=首方向, Z=前方 の右手系なので、
// 左半身の腕は -X 側、右半身の腕は +X 側になる。
var offsetDirections = [jointCount]mgl64.Vec3{
	LeftHip:       {-1, 0, 0},
	LeftKnee:      {0, -1, 0},
	LeftAnkle:     {0, -1, 0},
	LeftToe:       {0, 0, 1},
	RightHip:      {1, 0, 0},
	RightKnee:     {0, -1, 0},
	RightAnkle:    {0, -1, 0},
	RightToe:      {0, 0, 1},
	Neck:          {0, -1, 0},
	LeftShoulder:  {-1, 0, 0},
	LeftElbow:     {-1, 0, 0},
	LeftWrist:     {-1, 0, 0},
	RightShoulder: {1, 0, 0},
	RightElbow:    {1, 0, 0},
	RightWrist:    {1, 0, 0},
	LeftIndex:     {-1, 0, 0},
	RightIndex:    {1, 0, 0},
}

// bonePairs は左右対称ボーン。ベーススケルトン構築時に長さを平均・相互補完する
var bonePairs = [][2]Joint{
	{LeftHip, RightHip},
	{LeftKnee, RightKnee},
	{LeftAnkle, RightAnkle},
	{LeftToe, RightToe},
	{LeftShoulder, RightShoulder},
	{LeftElbow, RightElbow},
	{LeftWrist, RightWrist},
	{LeftIndex, RightIndex},
}

// inHierarchy はジョイントが運動学チェーンの一部かどうかを返す
func inHierarchy(j Joint) bool {
	return j == HipCentre || len(hierarchy[j]) > 0
}

func hasOffset(j Joint) bool {
	return j != HipCentre && len(hierarchy[j]) > 0
}
