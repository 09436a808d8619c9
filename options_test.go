package qsmcore

import "testing"

func TestDefaultOptions_Valid(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("DefaultOptions().Validate() = %v, want nil", err)
	}
}

func TestOptions_Validate(t *testing.T) {
	base := DefaultOptions()

	cases := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"default", func(o *Options) {}, false},
		{"invalid dkernel", func(o *Options) { o.Dkernel = DkernelKind(99) }, true},
		{"zero bdir", func(o *Options) { o.Bdir = DirectionVector{0, 0, 0} }, true},
		{"invalid reg", func(o *Options) { o.Reg = Reg(99) }, true},
		{"negative thr ok", func(o *Options) { o.Thr = -1 }, false},
		{"zero lambda ok", func(o *Options) { o.Lambda = 0 }, false},
	}

	for _, c := range cases {
		o := base
		c.mutate(&o)
		err := o.Validate()
		if (err != nil) != c.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", c.name, err, c.wantErr)
		}
		if err != nil {
			if _, ok := err.(*Error); !ok {
				t.Errorf("%s: error type = %T, want *Error", c.name, err)
			}
		}
	}
}

func TestDkernelKind_String(t *testing.T) {
	cases := map[DkernelKind]string{
		DkernelK:      "k",
		DkernelKSpace: "kspace",
		DkernelI:      "i",
		DkernelISpace: "ispace",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", k, got, want)
		}
	}
}

func TestDkernelKind_IsISpace(t *testing.T) {
	cases := map[DkernelKind]bool{
		DkernelK:      false,
		DkernelKSpace: false,
		DkernelI:      true,
		DkernelISpace: true,
	}
	for k, want := range cases {
		if got := k.isISpace(); got != want {
			t.Errorf("%v.isISpace() = %v, want %v", k, got, want)
		}
	}
}
