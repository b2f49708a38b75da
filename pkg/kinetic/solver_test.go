package kinetic

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/miu200521358/pose-kinetic/pkg/model"
)

func pv(x, y, z float64) model.PositionVisibility {
	return model.PositionVisibility{X: x, Y: y, Z: z, Visibility: 1, Presence: 1}
}

// tPoseCoordinates は腕を水平に広げた対称Tポーズ(脚つき)
func tPoseCoordinates() map[Joint]model.PositionVisibility {
	return map[Joint]model.PositionVisibility{
		LeftHip:       pv(-1, 0, 0),
		RightHip:      pv(1, 0, 0),
		LeftShoulder:  pv(-1, 1, 0),
		RightShoulder: pv(1, 1, 0),
		LeftKnee:      pv(-1, -1, 0),
		RightKnee:     pv(1, -1, 0),
		LeftAnkle:     pv(-1, -2, 0),
		RightAnkle:    pv(1, -2, 0),
	}
}

func quatNearIdentity(q model.Quaternion, tolerance float64) bool {
	return math.Abs(q.X) < tolerance && math.Abs(q.Y) < tolerance &&
		math.Abs(q.Z) < tolerance && math.Abs(math.Abs(q.W)-1) < tolerance
}

func TestForwardTPoseAllIdentity(t *testing.T) {
	c := NewConverter(Options{})
	result := c.Forward(tPoseCoordinates())

	if len(result) == 0 {
		t.Fatalf("expected rotations for T-pose")
	}
	for j, q := range result {
		if !quatNearIdentity(q, 1e-9) {
			t.Fatalf("T-pose rotation for %s should be identity: %+v", j, q)
		}
	}
	if _, ok := result[HipCentre]; !ok {
		t.Fatalf("root rotation missing")
	}
	if _, ok := result[Neck]; !ok {
		t.Fatalf("derived neck rotation missing")
	}
}

func TestForwardRotatedTPoseRecoversYaw(t *testing.T) {
	// 鉛直軸まわりに90度回したTポーズ。ルートのY角にだけ回転が現れ、
	// 相対的な関節回転は無回転のまま残るはず
	rotate := func(p model.PositionVisibility) model.PositionVisibility {
		return pv(p.Z, p.Y, -p.X)
	}
	coordinates := map[Joint]model.PositionVisibility{}
	for j, p := range tPoseCoordinates() {
		coordinates[j] = rotate(p)
	}

	c := NewConverter(Options{})
	result := c.Forward(coordinates)

	root, ok := result[HipCentre]
	if !ok {
		t.Fatalf("root rotation missing")
	}
	half := math.Sqrt2 / 2
	if math.Abs(root.Y-half) > 1e-3 || math.Abs(root.W-half) > 1e-3 ||
		math.Abs(root.X) > 1e-3 || math.Abs(root.Z) > 1e-3 {
		t.Fatalf("root yaw should be 90 degrees: %+v", root)
	}

	for j, q := range result {
		if j == HipCentre {
			continue
		}
		if !quatNearIdentity(q, 1e-9) {
			t.Fatalf("relative rotation for %s should be unchanged: %+v", j, q)
		}
	}
}

func TestForwardBentKnee(t *testing.T) {
	coordinates := tPoseCoordinates()
	// 右すねを前方(+Z)へ90度曲げる
	coordinates[RightAnkle] = pv(1, -1, 1)

	c := NewConverter(Options{})
	result := c.Forward(coordinates)

	knee, ok := result[RightKnee]
	if !ok {
		t.Fatalf("right knee rotation missing")
	}
	half := math.Sqrt2 / 2
	if math.Abs(knee.X+half) > 1e-9 || math.Abs(knee.W-half) > 1e-9 {
		t.Fatalf("right knee should bend -90 degrees about X: %+v", knee)
	}

	if q := result[LeftKnee]; !quatNearIdentity(q, 1e-9) {
		t.Fatalf("left knee should stay neutral: %+v", q)
	}
}

func TestForwardIdempotent(t *testing.T) {
	c := NewConverter(Options{})
	coordinates := tPoseCoordinates()
	coordinates[RightAnkle] = pv(1, -1, 1)

	first := c.Forward(coordinates)
	second := c.Forward(coordinates)

	if len(first) != len(second) {
		t.Fatalf("result size changed between identical calls: %d vs %d", len(first), len(second))
	}
	for j, q1 := range first {
		q2, ok := second[j]
		if !ok {
			t.Fatalf("joint %s missing on second call", j)
		}
		if math.Abs(q1.X-q2.X) > 1e-12 || math.Abs(q1.Y-q2.Y) > 1e-12 ||
			math.Abs(q1.Z-q2.Z) > 1e-12 || math.Abs(q1.W-q2.W) > 1e-12 {
			t.Fatalf("joint %s drifted between identical calls: %+v vs %+v", j, q1, q2)
		}
	}
}

func TestForwardMissingJointTolerance(t *testing.T) {
	coordinates := tPoseCoordinates()
	coordinates[LeftAnkle] = pv(-1, -1, 1)
	coordinates[RightAnkle] = pv(1, -1, 1)
	delete(coordinates, RightKnee)

	c := NewConverter(Options{})
	result := c.Forward(coordinates)

	// 右ひざが消えると右足首のチェーンが切れ、足首は単位回転で残る
	ankle, ok := result[RightAnkle]
	if !ok {
		t.Fatalf("right ankle should still appear")
	}
	if !quatNearIdentity(ankle, 1e-9) {
		t.Fatalf("right ankle with broken chain should be identity: %+v", ankle)
	}
	if _, ok := result[RightKnee]; ok {
		t.Fatalf("unavailable right knee should not appear in the result")
	}

	// 左脚のチェーンは無傷なので、正しい屈曲が出る
	knee, ok := result[LeftKnee]
	if !ok {
		t.Fatalf("left knee rotation missing")
	}
	half := math.Sqrt2 / 2
	if math.Abs(knee.X+half) > 1e-9 || math.Abs(knee.W-half) > 1e-9 {
		t.Fatalf("left knee should bend -90 degrees about X: %+v", knee)
	}
}

func TestForwardInsufficientData(t *testing.T) {
	c := NewConverter(Options{})
	result := c.Forward(map[Joint]model.PositionVisibility{
		LeftWrist: pv(0, 0, 0),
	})
	if len(result) != 0 {
		t.Fatalf("expected empty result for insufficient data: %v", result)
	}
}

func TestForwardDropsNaNJoints(t *testing.T) {
	coordinates := tPoseCoordinates()
	coordinates[LeftToe] = model.PositionVisibility{X: math.NaN(), Y: 0, Z: 0, Visibility: 1}

	c := NewConverter(Options{})
	result := c.Forward(coordinates)

	if _, ok := result[LeftToe]; ok {
		t.Fatalf("NaN joint should be treated as unavailable")
	}
	if _, ok := result[HipCentre]; !ok {
		t.Fatalf("remaining joints should still be solved")
	}
}

func TestInverseReconstructsPositions(t *testing.T) {
	coordinates := tPoseCoordinates()
	coordinates[RightAnkle] = pv(1, -1, 1)

	c := NewConverter(Options{})
	if result := c.Forward(coordinates); len(result) == 0 {
		t.Fatalf("forward pass failed")
	}

	rotations := map[Joint]EulerAngles{
		HipCentre:  {},
		LeftHip:    {},
		LeftKnee:   {},
		LeftAnkle:  {},
		RightHip:   {},
		RightKnee:  {X: -math.Pi / 2},
		RightAnkle: {},
	}
	positions := c.Inverse(rotations)

	expected := map[Joint]mgl64.Vec3{
		HipCentre:  {0, 0, 0},
		LeftHip:    {-1, 0, 0},
		LeftKnee:   {-1, -1, 0},
		LeftAnkle:  {-1, -2, 0},
		RightHip:   {1, 0, 0},
		RightKnee:  {1, -1, 0},
		RightAnkle: {1, -1, 1},
	}
	for j, want := range expected {
		got, ok := positions[j]
		if !ok || len(got) != 1 {
			t.Fatalf("missing reconstructed position for %s", j)
		}
		if !vecNear(got[0], want, 1e-9) {
			t.Fatalf("reconstructed %s: got=%v want=%v", j, got[0], want)
		}
	}
}

func TestInverseSkipsBrokenChains(t *testing.T) {
	// 足首のボーン長が一度も推定されていない状態では、
	// その先のつま先は再構築されない
	coordinates := map[Joint]model.PositionVisibility{
		LeftHip:  pv(-1, 0, 0),
		RightHip: pv(1, 0, 0),
		LeftKnee: pv(-1, -1, 0),
	}
	c := NewConverter(Options{})
	c.Forward(coordinates)

	positions := c.Inverse(map[Joint]EulerAngles{
		HipCentre: {},
		LeftHip:   {},
		LeftKnee:  {},
		LeftToe:   {},
	})

	if _, ok := positions[LeftToe]; ok {
		t.Fatalf("toe with missing ancestor bone lengths should be skipped")
	}
	if _, ok := positions[LeftKnee]; !ok {
		t.Fatalf("knee with known bones should be reconstructed")
	}
}
