package xrotate

import "io"

// FileOpener 返回以 NewFile 打开目的地的函数，可直接传给 xstream.WithOpener
func FileOpener(opts ...FileOption) func(destination string) (io.WriteCloser, error) {
	return func(destination string) (io.WriteCloser, error) {
		r, err := NewFile(destination, opts...)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// LumberjackOpener 返回以 NewLumberjack 打开目的地的函数，可直接传给 xstream.WithOpener
func LumberjackOpener(opts ...LumberjackOption) func(destination string) (io.WriteCloser, error) {
	return func(destination string) (io.WriteCloser, error) {
		r, err := NewLumberjack(destination, opts...)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}
