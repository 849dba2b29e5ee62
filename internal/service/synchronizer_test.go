package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronizerPrimaryFailureAborts(t *testing.T) {
	sync := NewSynchronizer()

	stepRan := false
	warning, err := sync.Run("测试操作",
		func() error { return errors.New("权威写入失败") },
		SyncStep{Name: "冗余步骤", Fn: func() error { stepRan = true; return nil }},
	)

	// 权威侧失败时整个操作失败，冗余侧不会执行
	require.Error(t, err)
	assert.Empty(t, warning)
	assert.False(t, stepRan)
}

func TestSynchronizerStepFailureOnlyWarns(t *testing.T) {
	sync := NewSynchronizer()

	warning, err := sync.Run("测试操作",
		func() error { return nil },
		SyncStep{Name: "步骤一", Fn: func() error { return errors.New("故障") }},
		SyncStep{Name: "步骤二", Fn: func() error { return nil }},
		SyncStep{Name: "步骤三", Fn: func() error { return errors.New("故障") }},
	)

	// 冗余失败不影响整体成功，告警按步骤聚合
	require.NoError(t, err)
	assert.Contains(t, warning, "步骤一失败")
	assert.Contains(t, warning, "步骤三失败")
	assert.NotContains(t, warning, "步骤二")
	assert.Contains(t, warning, "；")
}

func TestSynchronizerNoSteps(t *testing.T) {
	sync := NewSynchronizer()

	warning, err := sync.Run("测试操作", func() error { return nil })
	require.NoError(t, err)
	assert.Empty(t, warning)
}
