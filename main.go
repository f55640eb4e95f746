// brightness-ctl sets or gets the brightness of a laptop screen through the
// kernel backlight interface.
package main

import "github.com/de-vri-es/brightness-ctl/internal/cmd"

func main() {
	cmd.Execute()
}
