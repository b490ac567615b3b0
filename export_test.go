package recmock

import "testing"

type FakeTB = fakeTB

func NewFakeTB(t testing.TB) *FakeTB { return newFakeTB(t) }
