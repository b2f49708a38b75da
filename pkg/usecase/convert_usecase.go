package usecase

import (
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/miu200521358/pose-kinetic/pkg/config"
	"github.com/miu200521358/pose-kinetic/pkg/kinetic"
	"github.com/miu200521358/pose-kinetic/pkg/mlog"
	"github.com/miu200521358/pose-kinetic/pkg/model"
	"github.com/miu200521358/pose-kinetic/pkg/utils"
)

// Convert は全ストリームの座標フレームをローカル回転(四元数)へ変換する。
// ストリームごとに専用のソルバインスタンスを持つ(状態共有なし・ロック不要)
func Convert(allFrames []*model.Frames, cfg *config.Config) []*model.RotationFrames {
	mlog.I("Start: Convert =============================")

	allRotations := make([]*model.RotationFrames, len(allFrames))

	// 全体のタスク数をカウント
	totalFrames := 0
	for _, frames := range allFrames {
		totalFrames += len(frames.Frames)
	}
	bar := utils.NewProgressBar(totalFrames)

	var wg sync.WaitGroup

	for i, frames := range allFrames {
		wg.Add(1)

		go func(i int, frames *model.Frames) {
			defer wg.Done()
			allRotations[i] = convertStream(frames, cfg, bar)
		}(i, frames)
	}

	wg.Wait()
	bar.Finish()

	mlog.I("End: Convert =============================")

	return allRotations
}

func convertStream(frames *model.Frames, cfg *config.Config, bar *pb.ProgressBar) *model.RotationFrames {
	converter := kinetic.NewConverter(kinetic.Options{BoneLengthWindow: cfg.BoneLengthWindow})

	rotations := &model.RotationFrames{
		Path:   strings.Replace(frames.Path, "_pose.json", "_rot.json", -1),
		Frames: make(map[int]*model.RotationFrame, len(frames.Frames)),
	}

	fnos := maps.Keys(frames.Frames)
	slices.Sort(fnos)

	for _, fno := range fnos {
		bar.Increment()
		frame := frames.Frames[fno]
		if frame == nil {
			continue
		}

		coordinates := make(map[kinetic.Joint]model.PositionVisibility, len(frame.Joints))
		for name, joint := range frame.Joints {
			j, ok := kinetic.ParseJoint(name)
			if !ok {
				mlog.D("[%s] unknown joint name %s at frame %d", frames.Path, name, fno)
				continue
			}
			coordinates[j] = joint
		}
		dropLowVisibilityHands(coordinates, cfg.HandMinVisibility)

		result := converter.Forward(coordinates)

		frameRotations := make(map[string]model.Quaternion, len(result))
		for j, quat := range result {
			frameRotations[j.String()] = quat
		}
		rotations.Frames[fno] = &model.RotationFrame{Rotations: frameRotations}
	}

	return rotations
}

// dropLowVisibilityHands は手首の可視度が閾値未満の側の手指ランドマークを
// 落とす。補正が効かない指先ノイズで手首回転が暴れるのを防ぐ
func dropLowVisibilityHands(coordinates map[kinetic.Joint]model.PositionVisibility, minVisibility float64) {
	hands := []struct {
		wrist     kinetic.Joint
		landmarks []kinetic.Joint
	}{
		{kinetic.LeftWrist, []kinetic.Joint{kinetic.LeftIndex, kinetic.LeftThumb, kinetic.LeftPinky}},
		{kinetic.RightWrist, []kinetic.Joint{kinetic.RightIndex, kinetic.RightThumb, kinetic.RightPinky}},
	}
	for _, hand := range hands {
		wrist, ok := coordinates[hand.wrist]
		if ok && wrist.Visibility >= minVisibility {
			continue
		}
		for _, landmark := range hand.landmarks {
			delete(coordinates, landmark)
		}
	}
}
