// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"sync"

	"github.com/ethcore/chain/common"
)

var stackPool = sync.Pool{
	New: func() interface{} {
		return &Stack{data: make([]common.Word, 0, 16)}
	},
}

// Stack is the VM's operand stack of 256-bit Words (spec.md §4.2, max
// depth 1024). It grows from the back; Back(0) is the top.
type Stack struct {
	data []common.Word
}

func newStack() *Stack {
	return stackPool.Get().(*Stack)
}

func returnStack(s *Stack) {
	s.data = s.data[:0]
	stackPool.Put(s)
}

func (st *Stack) len() int { return len(st.data) }

// Data returns the stack's contents, bottom first, for a tracing hook's
// read-only inspection. Callers must not mutate the returned words.
func (st *Stack) Data() []*common.Word {
	words := make([]*common.Word, len(st.data))
	for i := range st.data {
		words[i] = &st.data[i]
	}
	return words
}

func (st *Stack) push(d *common.Word) error {
	if len(st.data) >= stackLimit {
		return ErrStackOverflow
	}
	st.data = append(st.data, *d)
	return nil
}

// pop removes and returns the top of the stack. Callers never need to
// check for underflow here: interpreter.go's dispatch loop already calls
// stack.require(operation.minStack) before an opcode's execute function
// (and therefore pop) ever runs.
func (st *Stack) pop() common.Word {
	n := len(st.data) - 1
	v := st.data[n]
	st.data = st.data[:n]
	return v
}

func (st *Stack) peek() *common.Word {
	return &st.data[len(st.data)-1]
}

// Back returns the n'th item from the top without removing it. Back(0) is
// the top of the stack.
func (st *Stack) Back(n int) *common.Word {
	return &st.data[len(st.data)-n-1]
}

func (st *Stack) require(n int) error {
	if st.len() < n {
		return ErrStackUnderflow
	}
	return nil
}

func (st *Stack) swap(n int) {
	st.data[st.len()-n], st.data[st.len()-1] = st.data[st.len()-1], st.data[st.len()-n]
}

func (st *Stack) dup(n int) error {
	if len(st.data) >= stackLimit {
		return ErrStackOverflow
	}
	v := st.data[st.len()-n]
	st.data = append(st.data, v)
	return nil
}
