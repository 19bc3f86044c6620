// Command renderboard replays a sequence of move ids from the starting
// position and writes the resulting board to a PNG file.
package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/corintho/engine/game"
	"github.com/corintho/engine/internal/render"
)

var (
	moves  = flag.String("moves", "", "comma-separated move ids to apply from the starting position")
	output = flag.String("out", "board.png", "PNG file to write")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	pos := game.New()
	for _, tok := range splitMoves(*moves) {
		id, err := strconv.Atoi(tok)
		if err != nil {
			log.Fatalf("renderboard: invalid move id %q: %v", tok, err)
		}
		pos = pos.Apply(id)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("renderboard: creating %s: %v", *output, err)
	}
	defer f.Close()

	if err := render.WritePNG(f, pos); err != nil {
		log.Fatalf("renderboard: rendering: %v", err)
	}
	log.Printf("wrote %s\n%s", *output, pos)
}

func splitMoves(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
