package usecase

import (
	"sync"

	"github.com/jinzhu/copier"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/miu200521358/pose-kinetic/pkg/filter"
	"github.com/miu200521358/pose-kinetic/pkg/mlog"
	"github.com/miu200521358/pose-kinetic/pkg/model"
	"github.com/miu200521358/pose-kinetic/pkg/utils"
)

// Smooth は各ジョイント軌跡へ移動中央値フィルタをかけたコピーを返す。
// 元のフレーム群は変更しない
func Smooth(allFrames []*model.Frames, window int) ([]*model.Frames, error) {
	mlog.I("Start: Smooth =============================")

	allSmoothFrames := make([]*model.Frames, len(allFrames))

	bar := utils.NewProgressBar(len(allFrames))

	var wg sync.WaitGroup
	errCh := make(chan error, len(allFrames))

	for i, frames := range allFrames {
		wg.Add(1)

		go func(i int, frames *model.Frames) {
			defer wg.Done()
			defer bar.Increment()

			smoothFrames := new(model.Frames)
			if err := copier.CopyWithOption(smoothFrames, frames, copier.Option{DeepCopy: true}); err != nil {
				mlog.E("[%s] Failed to copy frames: %v", frames.Path, err)
				errCh <- err
				return
			}

			smoothJointTracks(smoothFrames, window)
			allSmoothFrames[i] = smoothFrames
		}(i, frames)
	}

	wg.Wait()
	bar.Finish()
	close(errCh)

	mlog.I("End: Smooth =============================")

	if len(errCh) > 0 {
		return nil, <-errCh
	}
	return allSmoothFrames, nil
}

func smoothJointTracks(frames *model.Frames, window int) {
	fnos := maps.Keys(frames.Frames)
	slices.Sort(fnos)

	filters := map[string]*filter.Median{}

	for _, fno := range fnos {
		frame := frames.Frames[fno]
		if frame == nil {
			continue
		}
		// ジョイントが欠けたフレームはそのジョイントの履歴に足さない
		jointNames := maps.Keys(frame.Joints)
		slices.Sort(jointNames)
		for _, name := range jointNames {
			f, ok := filters[name]
			if !ok {
				var err error
				f, err = filter.NewMedian(window)
				if err != nil {
					mlog.E("invalid smooth window: %v", err)
					return
				}
				filters[name] = f
			}
			joint := frame.Joints[name]
			smoothed := f.Filter([]float64{joint.X, joint.Y, joint.Z})
			joint.X, joint.Y, joint.Z = smoothed[0], smoothed[1], smoothed[2]
			frame.Joints[name] = joint
		}
	}
}
