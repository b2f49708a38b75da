package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/miu200521358/pose-kinetic/pkg/config"
	"github.com/miu200521358/pose-kinetic/pkg/mlog"
	"github.com/miu200521358/pose-kinetic/pkg/usecase"
	"github.com/miu200521358/pose-kinetic/pkg/utils"
)

var logLevel string
var configPath string
var dirPath string

func init() {
	flag.StringVar(&logLevel, "logLevel", "INFO", "set log level")
	flag.StringVar(&configPath, "configPath", "", "set config path")
	flag.StringVar(&dirPath, "dirPath", "", "set directory path")
	flag.Parse()

	switch logLevel {
	case "INFO":
		mlog.SetLevel(mlog.INFO)
	default:
		mlog.SetLevel(mlog.DEBUG)
	}
}

func main() {
	if dirPath == "" {
		mlog.E("dirPath must be provided")
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		mlog.E("Failed to load config: %v", err)
		os.Exit(1)
	}

	mlog.I("Unpack json ================")
	allFrames, err := usecase.Unpack(dirPath)
	if err != nil {
		mlog.E("Failed to unpack: %v", err)
		return
	}

	if cfg.SmoothWindow > 1 {
		mlog.I("Smooth Motion ================")
		allFrames, err = usecase.Smooth(allFrames, cfg.SmoothWindow)
		if err != nil {
			mlog.E("Failed to smooth: %v", err)
			return
		}
	}

	mlog.I("Convert Motion ================")
	allRotations := usecase.Convert(allFrames, cfg)

	if err := utils.WriteRotationFrames(allRotations, dirPath, "Rotation"); err != nil {
		mlog.E("Failed to write rotations: %v", err)
		return
	}

	// complete ファイルを出力する
	{
		completePath := filepath.Join(dirPath, "complete")
		mlog.I("Output Complete File %s", completePath)
		f, err := os.Create(completePath)
		if err != nil {
			mlog.E("Failed to create complete file: %v", err)
			return
		}
		defer f.Close()
	}

	mlog.I("Done!")
}
