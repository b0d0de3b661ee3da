package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ExamProfileKey returns the cache key for an exam profile record.
func (r *CacheKeyStruct) ExamProfileKey(examID string) string {
	return fmt.Sprintf("exam:%s:profile", examID)
}

// ExamAnswerKey returns the cache key for an exam's answer key.
func (r *CacheKeyStruct) ExamAnswerKey(examID string) string {
	return fmt.Sprintf("exam:%s:key", examID)
}

// AttemptFeedChannel returns the Pub/Sub channel carrying freshly graded
// attempts for an exam.
func (r *CacheKeyStruct) AttemptFeedChannel(examID string) string {
	return fmt.Sprintf("exam:%s:attempts", examID)
}

// BackupLock is the lock key that keeps concurrent instances from running
// the backup worker at the same time.
func (r *CacheKeyStruct) BackupLock() string {
	return "backup:lock"
}

var CacheKey = NewCacheKeyStruct()
