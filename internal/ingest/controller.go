package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oellm/hfcache/internal/fetch"
	"github.com/oellm/hfcache/internal/logging"
)

// ErrManifestNotFound 表示清单文件不存在。批处理直接失败并返回该错误，
// 调用方拿不到计数——与"空清单成功、计数为零"严格区分。
var ErrManifestNotFound = errors.New("manifest file not found")

// Tally 是一次批处理的成功/失败计数，批内单调累加，批末一次性返回。
type Tally struct {
	Successes int
	Failures  int
}

// Controller 将清单条目逐一派发给注入的外部传输能力。
type Controller struct {
	Models   fetch.ModelFetcher
	Datasets fetch.DatasetFetcher
	Logger   *logrus.Logger

	// Token 与 Revision 透传到每次传输请求。
	Token    string
	Revision string
}

// Ingest 处理清单中的全部条目。单条传输失败只计入失败数并继续——
// continue-on-error 是批处理的根本策略，一条坏记录不会阻止后续条目。
// 计数在最后一行处理完后一次性返回。
func (c *Controller) Ingest(ctx context.Context, manifestPath string) (Tally, error) {
	file, err := os.Open(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Tally{}, fmt.Errorf("%w: %s", ErrManifestNotFound, manifestPath)
		}
		return Tally{}, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	entries, err := ParseManifest(file)
	if err != nil {
		return Tally{}, err
	}

	// 同一批次的所有日志共享一个 batch_id，方便事后聚合检索。
	batchID := uuid.NewString()

	var tally Tally
	for _, entry := range entries {
		fields := logging.EntryFields(batchID, string(entry.Kind), entry.Name)
		if err := c.dispatch(ctx, entry); err != nil {
			tally.Failures++
			if c.Logger != nil {
				fields["error"] = err.Error()
				c.Logger.WithFields(fields).Warn("条目摄取失败")
			}
			continue
		}
		tally.Successes++
		if c.Logger != nil {
			c.Logger.WithFields(fields).Info("条目摄取完成")
		}
	}

	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{
			"action":    "batch_complete",
			"batch_id":  batchID,
			"successes": tally.Successes,
			"failures":  tally.Failures,
		}).Info("批处理完成")
	}
	return tally, nil
}

func (c *Controller) dispatch(ctx context.Context, entry Entry) error {
	if entry.Kind == KindDataset {
		return c.Datasets.FetchDataset(ctx, fetch.DatasetRequest{
			Name:   entry.Name,
			Config: entry.Config,
			Split:  entry.Split,
			Token:  c.Token,
		})
	}
	return c.Models.FetchModel(ctx, fetch.ModelRequest{
		Name:     entry.Name,
		Revision: c.Revision,
		Token:    c.Token,
	})
}

// DryRun 只解析并列出将要下载的条目，不触发任何传输。
func DryRun(manifestPath string, w io.Writer) error {
	file, err := os.Open(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrManifestNotFound, manifestPath)
		}
		return fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	entries, err := ParseManifest(file)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		fmt.Fprintf(w, "%-8s %s\n", entry.Kind, entry.Describe())
	}
	return nil
}
