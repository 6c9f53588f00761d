package colormap

import (
	"bufio"
	"fmt"
	"image/color"
	"log"
	"os"
	"strconv"
	"strings"
)

// Palette holds the three colours a gore is drawn with.
type Palette struct {
	Background color.RGBA
	Land       color.RGBA
	Coast      color.RGBA
}

// Default is black land and coastlines on white paper.
func Default() Palette {
	return Palette{
		Background: color.RGBA{255, 255, 255, 255},
		Land:       color.RGBA{0, 0, 0, 255},
		Coast:      color.RGBA{0, 0, 0, 255},
	}
}

// Load reads a palette file. Each line is "name r g b a" where name is
// background, land or coast; blank lines and # comments are skipped. Colours
// not named in the file keep their default.
func Load(filename string) (Palette, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Palette{}, fmt.Errorf("error opening color map file: %w", err)
	}
	defer file.Close()

	pal := Default()
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			log.Printf("Warning: Invalid line format in color map file: %s", line)
			continue
		}

		var rgba [4]uint8
		for i, f := range fields[1:5] {
			v, err := strconv.ParseUint(f, 10, 8)
			if err != nil {
				return Palette{}, fmt.Errorf("color map line %d: invalid component %q", lineNo, f)
			}
			rgba[i] = uint8(v)
		}
		c := color.RGBA{rgba[0], rgba[1], rgba[2], rgba[3]}

		switch strings.ToLower(fields[0]) {
		case "background":
			pal.Background = c
		case "land":
			pal.Land = c
		case "coast", "coastline":
			pal.Coast = c
		default:
			log.Printf("Warning: Unknown color name in color map file: %s", fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return Palette{}, fmt.Errorf("error reading color map file: %w", err)
	}
	return pal, nil
}
