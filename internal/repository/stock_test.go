package repository

import (
	"reflect"
	"testing"
)

// TestNormalizeDays проверяет сортировку и удаление дубликатов дней.
func TestNormalizeDays(t *testing.T) {
	got := normalizeDays([]int{4, 0, 2, 4, 0})
	want := []int{0, 2, 4}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestNormalizeDaysEmpty проверяет поведение для пустого набора.
func TestNormalizeDaysEmpty(t *testing.T) {
	if got := normalizeDays(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
