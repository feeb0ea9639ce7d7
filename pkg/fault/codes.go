// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package fault

const (
	segvAccErr = "Attempted access has violated the permissions assigned to the memory area."
	segvMapErr = "Address not mapped to object."

	busAdrAln   = "Invalid address alignment."
	busAdrErr   = "Non-existant physical address."
	busObjErr   = "Object specific hardware error."
	busMceErrAR = "Hardware memory error: action required."
	busMceErrAO = "Hardware memory error: action optional."

	illIllOpc = "Illegal opcode."
	illIllOpn = "Illegal operand."
	illIllAdr = "Illegal addressing mode."
	illIllTrp = "Illegal trap."
	illPrvOpc = "Privileged opcode."
	illPrvReg = "Privileged register."
	illCoproc = "Coprocessor error."
	illBadStk = "Internal stack error."

	fpeIntDiv = "Integer divide by zero."
	fpeIntOvf = "Integer overflow."
	fpeFltDiv = "Floating point divide by zero."
	fpeFltOvf = "Floating point overflow."
	fpeFltUnd = "Floating point underflow."
	fpeFltRes = "Floating point inexact result."
	fpeFltInv = "Floating point invalid operation."
	fpeFltSub = "Subscript out of range."

	unknownCode = "Unknown si_code."
)

// codes maps si_code values to descriptions for each fault signal of one OS.
type codes struct {
	segv map[int]string
	bus  map[int]string
	ill  map[int]string
	fpe  map[int]string
}

var illCodes = map[int]string{
	1: illIllOpc,
	2: illIllOpn,
	3: illIllAdr,
	4: illIllTrp,
	5: illPrvOpc,
	6: illPrvReg,
	7: illCoproc,
	8: illBadStk,
}

var segvCodes = map[int]string{
	1: segvMapErr,
	2: segvAccErr,
}

var tables = map[string]*codes{
	"linux": {
		segv: segvCodes,
		bus: map[int]string{
			1: busAdrAln,
			2: busAdrErr,
			3: busObjErr,
			4: busMceErrAR,
			5: busMceErrAO,
		},
		ill: illCodes,
		fpe: map[int]string{
			1: fpeIntDiv,
			2: fpeIntOvf,
			3: fpeFltDiv,
			4: fpeFltOvf,
			5: fpeFltUnd,
			6: fpeFltRes,
			7: fpeFltInv,
			8: fpeFltSub,
		},
	},
	"freebsd": {
		segv: segvCodes,
		bus: map[int]string{
			1: busAdrAln,
			2: busAdrErr,
			3: busObjErr,
		},
		ill: illCodes,
		fpe: map[int]string{
			1: fpeIntOvf,
			2: fpeIntDiv,
			3: fpeFltDiv,
			4: fpeFltOvf,
			5: fpeFltUnd,
			6: fpeFltRes,
			7: fpeFltInv,
			8: fpeFltSub,
		},
	},
	"darwin": {
		segv: segvCodes,
		bus: map[int]string{
			1: busAdrAln,
			2: busAdrErr,
			3: busObjErr,
		},
		ill: map[int]string{
			1: illIllOpc,
			2: illIllTrp,
			3: illPrvOpc,
			4: illIllOpn,
			5: illIllAdr,
			6: illPrvReg,
			7: illCoproc,
			8: illBadStk,
		},
		fpe: map[int]string{
			1: fpeFltDiv,
			2: fpeFltOvf,
			3: fpeFltUnd,
			4: fpeFltRes,
			5: fpeFltInv,
			6: fpeFltSub,
			7: fpeIntDiv,
			8: fpeIntOvf,
		},
	},
}
