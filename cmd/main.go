// @title           Bench Monitor API
// @version         1.0
// @description     Pressure/temperature monitoring and run control for a PLC-connected test bench.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"os"

	_ "bench_monitor/docs"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
