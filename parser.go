// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package binout

import (
	"bufio"
	"fmt"
	"io"

	"github.com/binout-go/binout/internal/indexcache"
)

// shardParser walks one physical shard's record stream and mutates a
// shared directoryTree. Grounded on the header-then-loop shape of the
// teacher's internal/hfs/hfs.go New() function and on the CD/DATA
// dispatch of original_source/dynareadout/src/binout.c.
type shardParser struct {
	r         *bufio.Reader
	pos       int64
	size      int64
	hdr       header
	curPath   *pathBuffer
	curFolder *folder
	fileIndex int
	tree      *directoryTree
	captured  []indexcache.Entry
}

func newShardParser(r io.Reader, size int64, fileIndex int, tree *directoryTree) *shardParser {
	return &shardParser{
		r:         bufio.NewReader(r),
		size:      size,
		curPath:   newPathBuffer(),
		fileIndex: fileIndex,
		tree:      tree,
	}
}

func (p *shardParser) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(p.r, buf); err != nil {
		return nil, err
	}
	p.pos += int64(n)
	return buf, nil
}

func (p *shardParser) skip(n int64) error {
	if n < 0 {
		return fmt.Errorf("negative skip of %d bytes", n)
	}
	written, err := io.CopyN(io.Discard, p.r, n)
	p.pos += written
	return err
}

// parse consumes the fixed header then every record until size is reached.
func (p *shardParser) parse() error {
	raw, err := p.readN(headerTotalSize)
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	p.hdr, err = parseHeader(raw)
	if err != nil {
		return err
	}

	for p.pos < p.size {
		if err := p.oneRecord(); err != nil {
			return err
		}
	}
	return nil
}

func (p *shardParser) oneRecord() error {
	lenField, err := p.readN(int(p.hdr.lenFieldSize))
	if err != nil {
		return fmt.Errorf("failed to read record length: %w", err)
	}
	recordLength := leUint(lenField, int(p.hdr.lenFieldSize))

	cmdField, err := p.readN(int(p.hdr.cmdFieldSize))
	if err != nil {
		return fmt.Errorf("failed to read command: %w", err)
	}
	cmd := recordCommand(leUint(cmdField, int(p.hdr.cmdFieldSize)))

	consumed := uint64(p.hdr.lenFieldSize) + uint64(p.hdr.cmdFieldSize)
	if recordLength < consumed {
		return fmt.Errorf("record length %d underflows its own header", recordLength)
	}
	payloadLen := int64(recordLength - consumed)

	switch cmd {
	case cmdCD:
		return p.doCD(payloadLen)
	case cmdData:
		return p.doData(payloadLen)
	default:
		return p.skip(payloadLen)
	}
}

func (p *shardParser) doCD(payloadLen int64) error {
	if payloadLen > maxPathLength {
		return fmt.Errorf("CD path of %d bytes exceeds %d-byte limit", payloadLen, maxPathLength)
	}
	raw, err := p.readN(int(payloadLen))
	if err != nil {
		return fmt.Errorf("failed to read PATH of CD record: %w", err)
	}
	path := string(raw)

	if isAbsolutePath(path) {
		if err := p.curPath.setAbsolute(path); err != nil {
			return err
		}
	} else {
		if err := p.curPath.joinRelative(path); err != nil {
			return err
		}
	}

	abs := p.curPath.String()
	if abs == "/" {
		// the root is never inserted as a folder of itself
		p.curFolder = nil
		return nil
	}
	p.curFolder = p.tree.insertFolder(abs)
	return nil
}

func (p *shardParser) doData(payloadLen int64) error {
	if p.curFolder == nil {
		return fmt.Errorf("DATA record before any CD (data at archive root is unsupported)")
	}

	typeField, err := p.readN(int(p.hdr.typeidFieldSize))
	if err != nil {
		return fmt.Errorf("failed to read TYPEID of DATA record: %w", err)
	}
	typ := TypeID(leUint(typeField, int(p.hdr.typeidFieldSize)))

	nameLenField, err := p.readN(1)
	if err != nil {
		return fmt.Errorf("failed to read name length of DATA record: %w", err)
	}
	nameLen := int(nameLenField[0])

	nameBytes, err := p.readN(nameLen)
	if err != nil {
		return fmt.Errorf("failed to read name of DATA record: %w", err)
	}
	name := string(nameBytes)

	headerLen := int64(p.hdr.typeidFieldSize) + 1 + int64(nameLen)
	if payloadLen < headerLen {
		return fmt.Errorf("DATA record payload too short for its own type/name fields")
	}
	dataLen := payloadLen - headerLen
	filePos := p.pos

	if err := p.skip(dataLen); err != nil {
		return fmt.Errorf("failed to skip data of DATA record: %w", err)
	}

	p.tree.insertLeaf(p.curFolder, name, typ, dataLen, p.fileIndex, filePos)
	p.captured = append(p.captured, indexcache.Entry{
		FolderPath: p.curPath.String(),
		Name:       name,
		Type:       uint8(typ),
		Size:       dataLen,
		FilePos:    filePos,
	})
	return nil
}

// snapshot returns every directory contribution this parse run inserted,
// for the optional on-disk index cache to memoize.
func (p *shardParser) snapshot() *indexcache.Snapshot {
	return &indexcache.Snapshot{Entries: p.captured}
}
