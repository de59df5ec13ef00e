// Copyright 2024 jack-libra. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// tcgw is the host-side gateway to 1592 traffic-signal controllers.
//
// Receive mode listens for controller reports, renders them into the
// log and acknowledges where the protocol requires. Command mode adds
// the interactive command loop on the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jack-libra/go-tc1592/catalog"
	"github.com/jack-libra/go-tc1592/center"
	"github.com/jack-libra/go-tc1592/command"
	"github.com/jack-libra/go-tc1592/config"
	"github.com/jack-libra/go-tc1592/logx"
	"github.com/jack-libra/go-tc1592/metrics"
	"github.com/jack-libra/go-tc1592/transport"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		modeFlag    = flag.String("mode", "command", "runtime mode: receive|command")
		deviceID    = flag.Int("device", 3, "device id from the address table")
		configPath  = flag.String("config", "", "optional YAML device table")
		logDir      = flag.String("log-dir", "logs", "log directory")
		metricsAddr = flag.String("metrics", "", "optional Prometheus listen address")
	)
	flag.Parse()

	mode, err := catalog.ParseMode(*modeFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log, err := logx.Setup(mode, *logDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	table, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("載入設備表失敗: %v", err)
		return 1
	}
	dev, err := table.Device(*deviceID)
	if err != nil {
		log.Errorf("設備配置錯誤: %v", err)
		return 1
	}

	sock, err := transport.Open(dev, log)
	if err != nil {
		log.Errorf("開啟UDP連接失敗: %v", err)
		return 1
	}
	defer sock.Close()

	reg := prometheus.NewRegistry()
	met := metrics.New(reg)
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Errorf("metrics端點失敗: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctr := center.New(mode, *deviceID, sock, log, met)
	log.Infof("系統初始化完成 - %s模式 (%s)", mode, config.ControllerID(*deviceID))

	if mode == catalog.ModeReceive {
		ctr.ReceiveLoop(ctx, sock)
		log.Info("系統已停止")
		return 0
	}

	go ctr.ReceiveLoop(ctx, sock)

	drv := command.New(ctr, os.Stdout, clock.New(), config.ControllerID(*deviceID))
	drv.Run(ctx, os.Stdin)
	stop()
	log.Info("系統已停止")
	return 0
}
