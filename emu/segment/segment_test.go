package segment

import (
	"strings"
	"testing"
)

func TestEmpty(t *testing.T) {
	seg := NewZeroed()
	want := "Segment { backing: [0000, <elided 65535 repetitions>] }"
	if seg.String() != want {
		t.Errorf("Wrong rendering got: %s expected: %s", seg.String(), want)
	}
}

func TestPrefix(t *testing.T) {
	seg := FromPrefix([]uint16{1, 2, 3, 4})
	want := "Segment { backing: [0001, 0002, 0003, 0004, 0000, <elided 65531 repetitions>] }"
	if seg.String() != want {
		t.Errorf("Wrong rendering got: %s expected: %s", seg.String(), want)
	}
}

func TestPrefixEmpty(t *testing.T) {
	seg := FromPrefix(nil)
	want := "Segment { backing: [0000, <elided 65535 repetitions>] }"
	if seg.String() != want {
		t.Errorf("Wrong rendering got: %s expected: %s", seg.String(), want)
	}
}

func TestPrefixLong(t *testing.T) {
	prefix := make([]uint16, 65534)
	for i := range prefix {
		prefix[i] = 0xABCD
	}
	seg := FromPrefix(prefix)
	want := "Segment { backing: [ABCD, <elided 65533 repetitions>, 0000, 0000] }"
	if seg.String() != want {
		t.Errorf("Wrong rendering got: %s expected: %s", seg.String(), want)
	}
}

func TestPrefixOverlong(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Overlong prefix did not panic")
		}
	}()
	FromPrefix(make([]uint16, 65537))
}

func TestElideThreshold(t *testing.T) {
	cases := []struct {
		count int
		want  string
	}{
		{1, "Segment { backing: [ABCD, 0000, <elided 65534 repetitions>] }"},
		{2, "Segment { backing: [ABCD, ABCD, 0000, <elided 65533 repetitions>] }"},
		{3, "Segment { backing: [ABCD, ABCD, ABCD, 0000, <elided 65532 repetitions>] }"},
		{4, "Segment { backing: [ABCD, ABCD, ABCD, ABCD, 0000, <elided 65531 repetitions>] }"},
		{5, "Segment { backing: [ABCD, <elided 4 repetitions>, 0000, <elided 65530 repetitions>] }"},
	}
	for _, c := range cases {
		prefix := make([]uint16, c.count)
		for i := range prefix {
			prefix[i] = 0xABCD
		}
		seg := FromPrefix(prefix)
		if seg.String() != c.want {
			t.Errorf("Wrong rendering of %d repeats got: %s expected: %s", c.count, seg.String(), c.want)
		}
	}
}

func TestMiddle(t *testing.T) {
	seg := NewZeroed()
	seg[1234] = 0xABCD
	want := "Segment { backing: [0000, <elided 1233 repetitions>, ABCD, 0000, <elided 64300 repetitions>] }"
	if seg.String() != want {
		t.Errorf("Wrong rendering got: %s expected: %s", seg.String(), want)
	}
}

func TestEqual(t *testing.T) {
	a := FromPrefix([]uint16{1, 2, 3})
	b := FromPrefix([]uint16{1, 2, 3})
	if !a.Equal(b) {
		t.Error("Identical segments compare unequal")
	}
	b[0xFFFF] = 1
	if a.Equal(b) {
		t.Error("Differing segments compare equal")
	}
}

func TestFromBytes(t *testing.T) {
	image := make([]byte, FileBytes)
	image[0] = 0x12
	image[1] = 0x34
	image[2*0xFFFF] = 0xAB
	image[2*0xFFFF+1] = 0xCD
	seg, err := FromBytes(image)
	if err != nil {
		t.Fatalf("Decoding failed: %v", err)
	}
	if seg[0] != 0x1234 {
		t.Errorf("Wrong word 0 got: %04x expected: 1234", seg[0])
	}
	if seg[0xFFFF] != 0xABCD {
		t.Errorf("Wrong word FFFF got: %04x expected: ABCD", seg[0xFFFF])
	}
	if seg[1] != 0 {
		t.Errorf("Wrong word 1 got: %04x expected: 0000", seg[1])
	}
}

func TestFromBytesWrongLength(t *testing.T) {
	for _, size := range []int{0, 1, FileBytes - 1, FileBytes + 1} {
		_, err := FromBytes(make([]byte, size))
		if err == nil {
			t.Errorf("Image of %d bytes did not fail", size)
		} else if !strings.Contains(err.Error(), "131072") {
			t.Errorf("Error does not name the expected size: %v", err)
		}
	}
}
