package main

import (
	"github.com/ds124wfegd/imgaug/config"
	"github.com/ds124wfegd/imgaug/internal/appServer"
	"github.com/sirupsen/logrus"
)

func main() {
	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	if err := appServer.NewServer(cfg); err != nil {
		logrus.Fatal(err)
	}
}
