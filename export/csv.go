package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"ewintr.nl/ytstats/model"
)

type CSV struct {
	Folder string
}

func NewCSV(folder string) *CSV {
	return &CSV{Folder: folder}
}

// Write stores the dataset as fileName in the export folder and returns the
// full path.
func (c *CSV) Write(fileName string, data model.Dataset) (string, error) {
	rows := make([][]string, 0, len(data))
	for _, record := range data {
		rows = append(rows, record.Row())
	}

	return c.write(fileName, model.VideoColumns, rows)
}

func (c *CSV) WriteChannels(fileName string, channels []model.ChannelSummary) (string, error) {
	rows := make([][]string, 0, len(channels))
	for _, ch := range channels {
		rows = append(rows, []string{
			string(ch.ChannelID),
			ch.ChannelName,
			strconv.FormatUint(ch.Subscribers, 10),
			strconv.FormatUint(ch.Views, 10),
			strconv.FormatUint(ch.TotalVideos, 10),
			string(ch.PlaylistID),
		})
	}

	return c.write(fileName, model.ChannelColumns, rows)
}

func (c *CSV) write(fileName string, header []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(c.Folder, 0755); err != nil {
		return "", fmt.Errorf("create export folder: %w", err)
	}
	path := filepath.Join(c.Folder, fileName)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write rows: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	return path, nil
}
