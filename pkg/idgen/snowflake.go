package idgen

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init 初始化雪花ID生成器
// startTime 格式为 2006-01-02，作为时间戳起点；machineID 区分部署实例
func Init(startTime string, machineID int64) error {
	t, err := time.Parse("2006-01-02", startTime)
	if err != nil {
		return err
	}
	snowflake.Epoch = t.UnixNano() / 1e6

	n, err := snowflake.NewNode(machineID)
	if err != nil {
		return err
	}
	node = n
	return nil
}

// NextID 生成下一个雪花ID
// 未显式初始化时退化为0号节点，保证单测无需任何初始化
func NextID() int64 {
	if node == nil {
		nodeOnce.Do(func() {
			if node == nil {
				n, err := snowflake.NewNode(0)
				if err != nil {
					panic(err)
				}
				node = n
			}
		})
	}
	return node.Generate().Int64()
}
