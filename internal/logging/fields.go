package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 缓存根目录等基础字段，便于不同入口复用。
func BaseFields(action, root string) logrus.Fields {
	return logrus.Fields{
		"action": action,
		"root":   root,
	}
}

// EntryFields 提供批量摄取单条目所需的字段，供 ingest 日志复用。
func EntryFields(batchID, kind, name string) logrus.Fields {
	return logrus.Fields{
		"batch_id": batchID,
		"kind":     kind,
		"artifact": name,
	}
}
