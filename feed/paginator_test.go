package feed

import (
	"reflect"
	"testing"
)

func TestBounds(t *testing.T) {
	type args struct {
		count int
		size  int
		raw   string
	}
	tests := []struct {
		name         string
		args         args
		wantNumber   int
		wantNumPages int
	}{
		{"empty", args{0, 10, ""}, 1, 1},
		{"empty page 3", args{0, 10, "3"}, 1, 1},
		{"first", args{13, 10, "1"}, 1, 2},
		{"second", args{13, 10, "2"}, 2, 2},
		{"past end", args{13, 10, "99"}, 2, 2},
		{"past int range", args{13, 10, "99999999999999999999"}, 2, 2},
		{"below int range", args{13, 10, "-99999999999999999999"}, 1, 2},
		{"zero", args{13, 10, "0"}, 1, 2},
		{"negative", args{13, 10, "-4"}, 1, 2},
		{"not a number", args{13, 10, "last"}, 1, 2},
		{"blank", args{13, 10, ""}, 1, 2},
		{"spaces", args{13, 10, " 2 "}, 2, 2},
		{"exact fit", args{20, 10, "3"}, 2, 2},
		{"one item", args{1, 10, "1"}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, numPages := Bounds(tt.args.count, tt.args.size, tt.args.raw)
			if number != tt.wantNumber || numPages != tt.wantNumPages {
				t.Errorf("Bounds() = %d, %d, want %d, %d", number, numPages, tt.wantNumber, tt.wantNumPages)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 13)
	for i := range items {
		items[i] = i
	}
	tests := []struct {
		name  string
		items []int
		raw   string
		want  Page[int]
	}{
		{
			"first page",
			items, "1",
			Page[int]{Items: items[:10], Number: 1, NumPages: 2, Count: 13, HasNext: true, NextNumber: 2},
		},
		{
			"last page",
			items, "2",
			Page[int]{Items: items[10:], Number: 2, NumPages: 2, Count: 13, HasPrevious: true, PreviousNumber: 1},
		},
		{
			"clamped",
			items, "7",
			Page[int]{Items: items[10:], Number: 2, NumPages: 2, Count: 13, HasPrevious: true, PreviousNumber: 1},
		},
		{
			"empty",
			nil, "",
			Page[int]{Items: []int{}, Number: 1, NumPages: 1, Count: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Paginate(tt.items, 10, tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Paginate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
