package collector

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"hostcheck/pkg/log"
	"hostcheck/pkg/models"

	"github.com/dustin/go-humanize"
)

const dfFields = 6

var errNoDfRow = errors.New("df printed no filesystem row")

// collectDisk reports root filesystem usage, preferring df display strings.
func (c *Collector) collectDisk(ctx context.Context) models.Fact[models.DiskUsage] {
	if c.has("df") {
		result, err := c.run(ctx, "df", "-hP", rootMount)
		if err == nil && result.OK() {
			usage, parseErr := parseDf(result.Stdout)
			if parseErr == nil {
				return models.Present(usage)
			}
			err = parseErr
		}
		log.Debug().Err(err).Msg("df unusable, falling back to statfs")
	}

	stat, err := c.diskUsage(ctx, rootMount)
	if err != nil {
		log.Warn().Err(err).Str("mount", rootMount).Msg("Failed to collect disk usage")
		return models.Unavailable[models.DiskUsage]()
	}

	return models.Present(models.DiskUsage{
		Filesystem: stat.Fstype,
		Size:       humanize.IBytes(stat.Total),
		Used:       humanize.IBytes(stat.Used),
		Avail:      humanize.IBytes(stat.Free),
		// df rounds the percentage up
		UsedPct: strconv.Itoa(int(math.Ceil(stat.UsedPercent))) + "%",
		Mount:   stat.Path,
	})
}

// parseDf reads the first filesystem row of `df -hP` output.
func parseDf(out []byte) (models.DiskUsage, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	row := 0
	for scanner.Scan() {
		row++
		if row == 1 {
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < dfFields {
			continue
		}
		return models.DiskUsage{
			Filesystem: fields[0],
			Size:       fields[1],
			Used:       fields[2],
			Avail:      fields[3],
			UsedPct:    fields[4],
			Mount:      strings.Join(fields[5:], " "),
		}, nil
	}
	return models.DiskUsage{}, errNoDfRow
}
