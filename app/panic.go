package app

import (
	"fmt"
	"strings"

	"flick/flickos/kernel"
	"flick/hal"
)

func installPanicHandler(log hal.Logger) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		if log == nil {
			return
		}
		log.WriteLineString(fmt.Sprintf("flick panic: task=%s panic=%v", info.Name, info.Value))
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line == "" {
				continue
			}
			log.WriteLineString(line)
		}
	})
}
