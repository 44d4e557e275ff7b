package shaderop

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseShaderOpSet reads an op-description document from r and returns the
// parsed set. The document root must be a ShaderOpSet element; unrecognized
// child elements anywhere in the document are skipped for forward
// compatibility.
func ParseShaderOpSet(r io.Reader) (*ShaderOpSet, error) {
	d := xml.NewDecoder(r)
	set := &ShaderOpSet{}
	found := false
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("shaderop: parse: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "ShaderOpSet" {
			if err := d.Skip(); err != nil {
				return nil, fmt.Errorf("shaderop: parse: %w", err)
			}
			continue
		}
		found = true
		if err := parseShaderOpSetBody(d, set); err != nil {
			return nil, err
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: missing ShaderOpSet element", ErrInvalidArgument)
	}
	return set, nil
}

// ParseShaderOp reads a document and returns the single named op from it.
func ParseShaderOp(r io.Reader, name string) (*ShaderOp, error) {
	set, err := ParseShaderOpSet(r)
	if err != nil {
		return nil, err
	}
	op := set.GetShaderOp(name)
	if op == nil {
		return nil, fmt.Errorf("%w: shader op %q", ErrNotFound, name)
	}
	return op, nil
}

func parseShaderOpSetBody(d *xml.Decoder, set *ShaderOpSet) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return fmt.Errorf("shaderop: parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "ShaderOp" {
				op, err := parseShaderOp(d, t)
				if err != nil {
					return err
				}
				set.ShaderOps = append(set.ShaderOps, op)
			} else if err := d.Skip(); err != nil {
				return fmt.Errorf("shaderop: parse: %w", err)
			}
		case xml.EndElement:
			return nil
		}
	}
}

// opParser carries the per-op intern table through element handlers.
type opParser struct {
	strings *StringTable
}

func parseShaderOp(d *xml.Decoder, se xml.StartElement) (*ShaderOp, error) {
	op := NewShaderOp()
	p := &opParser{strings: op.Strings}

	op.Name = p.attrStr(se, "Name")
	if op.Name == "" {
		return nil, fmt.Errorf("%w: ShaderOp requires a Name attribute", ErrInvalidArgument)
	}
	op.CS = p.attrStr(se, "CS")
	op.VS = p.attrStr(se, "VS")
	op.PS = p.attrStr(se, "PS")
	var err error
	if op.DispatchX, err = attrUint32(se, "DispatchX", 1); err != nil {
		return nil, err
	}
	if op.DispatchY, err = attrUint32(se, "DispatchY", 1); err != nil {
		return nil, err
	}
	if op.DispatchZ, err = attrUint32(se, "DispatchZ", 1); err != nil {
		return nil, err
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, fmt.Errorf("shaderop: parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "InputElements":
				if err := p.parseInputElements(d, op); err != nil {
					return nil, err
				}
			case "Shader":
				s, err := p.parseShader(d, t)
				if err != nil {
					return nil, err
				}
				op.Shaders = append(op.Shaders, s)
			case "RootSignature":
				text, err := elementText(d)
				if err != nil {
					return nil, err
				}
				op.RootSignature = p.strings.Insert(strings.TrimSpace(text))
			case "RenderTargets":
				if err := p.parseRenderTargets(d, op); err != nil {
					return nil, err
				}
			case "Resource":
				r, err := p.parseResource(d, t)
				if err != nil {
					return nil, err
				}
				op.Resources = append(op.Resources, r)
			case "DescriptorHeap":
				h, err := p.parseDescriptorHeap(d, t)
				if err != nil {
					return nil, err
				}
				op.DescriptorHeaps = append(op.DescriptorHeaps, h)
			case "RootValues":
				if err := p.parseRootValues(d, op); err != nil {
					return nil, err
				}
			default:
				if err := d.Skip(); err != nil {
					return nil, fmt.Errorf("shaderop: parse: %w", err)
				}
			}
		case xml.EndElement:
			return op, nil
		}
	}
}

func (p *opParser) parseShader(d *xml.Decoder, se xml.StartElement) (ShaderOpShader, error) {
	var s ShaderOpShader
	s.Name = p.attrStr(se, "Name")
	if s.Name == "" {
		return s, fmt.Errorf("%w: Shader requires a Name attribute", ErrInvalidArgument)
	}
	s.EntryPoint = p.attrStr(se, "EntryPoint")
	s.Target = p.attrStr(se, "Target")
	textAttr := p.attrStr(se, "Text")

	body, err := elementText(d)
	if err != nil {
		return s, err
	}
	body = strings.TrimSpace(body)
	if body != "" && textAttr != "" {
		return s, fmt.Errorf("%w: shader %q has text content and a Text attribute; it should only have one",
			ErrInvalidArgument, s.Name)
	}
	if body != "" {
		s.Text = p.strings.Insert(body)
	} else {
		s.Text = textAttr
	}
	if s.EntryPoint == "" {
		s.EntryPoint = p.strings.Insert("main")
	}
	return s, nil
}

func (p *opParser) parseResource(d *xml.Decoder, se xml.StartElement) (ShaderOpResource, error) {
	var r ShaderOpResource
	r.Name = p.attrStr(se, "Name")
	if r.Name == "" {
		return r, fmt.Errorf("%w: Resource requires a Name attribute", ErrInvalidArgument)
	}
	initAttr, _ := findAttr(se, "Init")
	kind, ok := ParseInitKind(initAttr)
	if !ok {
		return r, fmt.Errorf("%w: resource %q has unknown Init value %q",
			ErrInvalidArgument, r.Name, initAttr)
	}
	r.Init = kind
	var err error
	if r.ReadBack, err = attrBool(se, "ReadBack", false); err != nil {
		return r, err
	}

	var v uint32
	if v, err = attrEnum(se, "HeapType", EnumHeapType, uint32(HeapTypeDefault)); err != nil {
		return r, err
	}
	r.HeapProperties.Type = HeapType(v)
	if v, err = attrEnum(se, "CPUPageProperty", EnumCPUPageProperty, uint32(CPUPageUnknown)); err != nil {
		return r, err
	}
	r.HeapProperties.CPUPageProperty = CPUPageProperty(v)
	if v, err = attrEnum(se, "MemoryPoolPreference", EnumMemoryPool, uint32(MemoryPoolUnknown)); err != nil {
		return r, err
	}
	r.HeapProperties.MemoryPoolPreference = MemoryPool(v)
	if r.HeapProperties.CreationNodeMask, err = attrUint32(se, "CreationNodeMask", 0); err != nil {
		return r, err
	}
	if r.HeapProperties.VisibleNodeMask, err = attrUint32(se, "VisibleNodeMask", 0); err != nil {
		return r, err
	}

	if v, err = attrEnum(se, "Dimension", EnumResourceDimension, uint32(ResourceDimensionBuffer)); err != nil {
		return r, err
	}
	r.Desc.Dimension = ResourceDimension(v)
	if r.Desc.Alignment, err = attrUint64(se, "Alignment", 0); err != nil {
		return r, err
	}
	if r.Desc.Width, err = attrUint64(se, "Width", 0); err != nil {
		return r, err
	}
	if r.Desc.Height, err = attrUint32(se, "Height", 0); err != nil {
		return r, err
	}
	if r.Desc.DepthOrArraySize, err = attrUint16(se, "DepthOrArraySize", 0); err != nil {
		return r, err
	}
	if r.Desc.MipLevels, err = attrUint16(se, "MipLevels", 0); err != nil {
		return r, err
	}
	if v, err = attrEnum(se, "Format", EnumFormat, uint32(FormatUnknown)); err != nil {
		return r, err
	}
	r.Desc.Format = Format(v)
	if r.Desc.SampleDesc.Count, err = attrUint32(se, "SampleCount", 0); err != nil {
		return r, err
	}
	if r.Desc.SampleDesc.Quality, err = attrUint32(se, "SampleQual", 0); err != nil {
		return r, err
	}
	if v, err = attrEnum(se, "Layout", EnumTextureLayout, uint32(TextureLayoutUnknown)); err != nil {
		return r, err
	}
	r.Desc.Layout = TextureLayout(v)
	if v, err = attrEnum(se, "Flags", EnumResourceFlags, uint32(ResourceFlagNone)); err != nil {
		return r, err
	}
	r.Desc.Flags = ResourceFlags(v)

	if v, err = attrEnum(se, "HeapFlags", EnumHeapFlags, uint32(HeapFlagNone)); err != nil {
		return r, err
	}
	r.HeapFlags = HeapFlags(v)
	if v, err = attrEnum(se, "InitialResourceState", EnumResourceState, uint32(ResourceStateCommon)); err != nil {
		return r, err
	}
	r.InitialResourceState = ResourceState(v)
	if v, err = attrEnum(se, "TransitionTo", EnumResourceState, uint32(ResourceStateCommon)); err != nil {
		return r, err
	}
	r.TransitionTo = ResourceState(v)

	// Buffers take fixed values regardless of supplied attributes;
	// textures backfill zero dimensions to 1.
	switch r.Desc.Dimension {
	case ResourceDimensionBuffer:
		r.Desc.Height = 1
		r.Desc.DepthOrArraySize = 1
		r.Desc.MipLevels = 1
		r.Desc.Format = FormatUnknown
		r.Desc.SampleDesc = SampleDesc{Count: 1, Quality: 0}
		r.Desc.Layout = TextureLayoutRowMajor
	case ResourceDimensionTexture1D:
		if r.Desc.Height == 0 {
			r.Desc.Height = 1
		}
		if r.Desc.DepthOrArraySize == 0 {
			r.Desc.DepthOrArraySize = 1
		}
		if r.Desc.SampleDesc.Count == 0 {
			r.Desc.SampleDesc.Count = 1
		}
	case ResourceDimensionTexture2D:
		if r.Desc.DepthOrArraySize == 0 {
			r.Desc.DepthOrArraySize = 1
		}
		if r.Desc.SampleDesc.Count == 0 {
			r.Desc.SampleDesc.Count = 1
		}
	}

	body, err := elementText(d)
	if err != nil {
		return r, err
	}
	if strings.TrimSpace(body) != "" {
		if r.InitBytes, err = parseInitBytes(nil, body); err != nil {
			return r, fmt.Errorf("resource %q: %w", r.Name, err)
		}
	}
	return r, nil
}

func (p *opParser) parseDescriptorHeap(d *xml.Decoder, se xml.StartElement) (ShaderOpDescriptorHeap, error) {
	var h ShaderOpDescriptorHeap
	h.Name = p.attrStr(se, "Name")
	flagsVal, flagsFound, err := attrEnumOpt(se, "Flags", EnumDescriptorHeapFlags,
		uint32(DescriptorHeapFlagShaderVisible))
	if err != nil {
		return h, err
	}
	h.Flags = DescriptorHeapFlags(flagsVal)
	if h.NodeMask, err = attrUint32(se, "NodeMask", 0); err != nil {
		return h, err
	}
	if h.NumDescriptors, err = attrUint32(se, "NumDescriptors", 0); err != nil {
		return h, err
	}
	var v uint32
	if v, err = attrEnum(se, "Type", EnumDescriptorHeapType, uint32(DescriptorHeapCBVSRVUAV)); err != nil {
		return h, err
	}
	h.Type = DescriptorHeapType(v)
	// Render-target heaps are not shader visible unless explicitly flagged.
	if h.Type == DescriptorHeapRTV && !flagsFound {
		h.Flags = DescriptorHeapFlagNone
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return h, fmt.Errorf("shaderop: parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "Descriptor" {
				desc, err := p.parseDescriptor(d, t)
				if err != nil {
					return h, err
				}
				h.Descriptors = append(h.Descriptors, desc)
			} else if err := d.Skip(); err != nil {
				return h, fmt.Errorf("shaderop: parse: %w", err)
			}
		case xml.EndElement:
			return h, nil
		}
	}
}

func (p *opParser) parseDescriptor(d *xml.Decoder, se xml.StartElement) (ShaderOpDescriptor, error) {
	var desc ShaderOpDescriptor
	desc.Name = p.attrStr(se, "Name")
	desc.ResName = p.attrStr(se, "ResName")
	desc.CounterName = p.attrStr(se, "CounterName")
	kind := p.attrStr(se, "Kind")

	formatVal, formatFound, err := attrEnumOpt(se, "Format", EnumFormat, uint32(FormatUnknown))
	if err != nil {
		return desc, err
	}
	desc.UAVDesc.Format = Format(formatVal)
	var v uint32
	if v, err = attrEnum(se, "Dimension", EnumUAVDimension, uint32(UAVDimensionBuffer)); err != nil {
		return desc, err
	}
	desc.UAVDesc.Dimension = UAVDimension(v)
	switch desc.UAVDesc.Dimension {
	case UAVDimensionBuffer:
		b := &desc.UAVDesc.Buffer
		if b.FirstElement, err = attrUint64(se, "FirstElement", 0); err != nil {
			return desc, err
		}
		if b.NumElements, err = attrUint32(se, "NumElements", 0); err != nil {
			return desc, err
		}
		if b.StructureByteStride, err = attrUint32(se, "StructureByteStride", 0); err != nil {
			return desc, err
		}
		if b.CounterOffsetInBytes, err = attrUint64(se, "CounterOffsetInBytes", 0); err != nil {
			return desc, err
		}
		if f, _ := findAttr(se, "Flags"); strings.EqualFold(f, "RAW") {
			b.Flags = UAVBufferFlagRaw
		}
		// Raw views over an unspecified format read as 32-bit typeless.
		if !formatFound && b.Flags&UAVBufferFlagRaw != 0 {
			desc.UAVDesc.Format = FormatR32Typeless
		}
	case UAVDimensionTexture1D:
		if desc.UAVDesc.Texture1D.MipSlice, err = attrUint32(se, "MipSlice", 0); err != nil {
			return desc, err
		}
	case UAVDimensionTexture1DArray:
		t := &desc.UAVDesc.Texture1DArray
		if t.MipSlice, err = attrUint32(se, "MipSlice", 0); err != nil {
			return desc, err
		}
		if t.FirstArraySlice, err = attrUint32(se, "FirstArraySlice", 0); err != nil {
			return desc, err
		}
		if t.ArraySize, err = attrUint32(se, "ArraySize", 0); err != nil {
			return desc, err
		}
	case UAVDimensionTexture2D:
		t := &desc.UAVDesc.Texture2D
		if t.MipSlice, err = attrUint32(se, "MipSlice", 0); err != nil {
			return desc, err
		}
		if t.PlaneSlice, err = attrUint32(se, "PlaneSlice", 0); err != nil {
			return desc, err
		}
	case UAVDimensionTexture2DArray:
		t := &desc.UAVDesc.Texture2DArray
		if t.MipSlice, err = attrUint32(se, "MipSlice", 0); err != nil {
			return desc, err
		}
		if t.FirstArraySlice, err = attrUint32(se, "FirstArraySlice", 0); err != nil {
			return desc, err
		}
		if t.ArraySize, err = attrUint32(se, "ArraySize", 0); err != nil {
			return desc, err
		}
		if t.PlaneSlice, err = attrUint32(se, "PlaneSlice", 0); err != nil {
			return desc, err
		}
	case UAVDimensionTexture3D:
		t := &desc.UAVDesc.Texture3D
		if t.MipSlice, err = attrUint32(se, "MipSlice", 0); err != nil {
			return desc, err
		}
		if t.FirstWSlice, err = attrUint32(se, "FirstWSlice", 0); err != nil {
			return desc, err
		}
		if t.WSize, err = attrUint32(se, "WSize", 0); err != nil {
			return desc, err
		}
	}

	// Name and ResName backfill each other when one is missing.
	if desc.Name != "" && desc.ResName == "" {
		desc.ResName = desc.Name
	}
	if desc.ResName != "" && desc.Name == "" {
		desc.Name = desc.ResName
	}
	switch {
	case kind == "":
		return desc, fmt.Errorf("%w: descriptor %q is missing Kind attribute",
			ErrInvalidArgument, desc.Name)
	case strings.EqualFold(kind, "UAV"), strings.EqualFold(kind, "SRV"),
		strings.EqualFold(kind, "CBV"), strings.EqualFold(kind, "RTV"):
		desc.Kind = p.strings.Insert(strings.ToUpper(kind))
	default:
		return desc, fmt.Errorf("%w: descriptor %q references unknown kind %q",
			ErrInvalidArgument, desc.Name, kind)
	}

	if err := d.Skip(); err != nil {
		return desc, fmt.Errorf("shaderop: parse: %w", err)
	}
	return desc, nil
}

func (p *opParser) parseInputElements(d *xml.Decoder, op *ShaderOp) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return fmt.Errorf("shaderop: parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "InputElement" {
				el, err := p.parseInputElement(d, t)
				if err != nil {
					return err
				}
				op.InputElements = append(op.InputElements, el)
			} else if err := d.Skip(); err != nil {
				return fmt.Errorf("shaderop: parse: %w", err)
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (p *opParser) parseInputElement(d *xml.Decoder, se xml.StartElement) (InputElementDesc, error) {
	var el InputElementDesc
	el.SemanticName = p.attrStr(se, "SemanticName")
	var err error
	if el.SemanticIndex, err = attrUint32(se, "SemanticIndex", 0); err != nil {
		return el, err
	}
	var v uint32
	if v, err = attrEnum(se, "Format", EnumFormat, uint32(FormatUnknown)); err != nil {
		return el, err
	}
	el.Format = Format(v)
	if el.InputSlot, err = attrUint32(se, "InputSlot", 0); err != nil {
		return el, err
	}
	if el.AlignedByteOffset, err = attrUint32(se, "AlignedByteOffset", AlignedByteOffsetAppend); err != nil {
		return el, err
	}
	if v, err = attrEnum(se, "InputSlotClass", EnumInputClassification, uint32(InputPerVertex)); err != nil {
		return el, err
	}
	el.InputSlotClass = InputClassification(v)
	if el.InstanceDataStepRate, err = attrUint32(se, "InstanceDataStepRate", 0); err != nil {
		return el, err
	}
	if err := d.Skip(); err != nil {
		return el, fmt.Errorf("shaderop: parse: %w", err)
	}
	return el, nil
}

func (p *opParser) parseRenderTargets(d *xml.Decoder, op *ShaderOp) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return fmt.Errorf("shaderop: parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "RenderTarget" {
				op.RenderTargets = append(op.RenderTargets, p.attrStr(t, "Name"))
			}
			if err := d.Skip(); err != nil {
				return fmt.Errorf("shaderop: parse: %w", err)
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (p *opParser) parseRootValues(d *xml.Decoder, op *ShaderOp) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return fmt.Errorf("shaderop: parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "RootValue" {
				var rv ShaderOpRootValue
				rv.ResName = p.attrStr(t, "ResName")
				rv.HeapName = p.attrStr(t, "HeapName")
				var err error
				if rv.Index, err = attrUint32(t, "Index", 0); err != nil {
					return err
				}
				op.RootValues = append(op.RootValues, rv)
			}
			if err := d.Skip(); err != nil {
				return fmt.Errorf("shaderop: parse: %w", err)
			}
		case xml.EndElement:
			return nil
		}
	}
}

// elementText consumes the current element through its end tag and returns
// the concatenated top-level character data. Nested elements are skipped.
func elementText(d *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return "", fmt.Errorf("shaderop: parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			if depth == 0 {
				sb.Write(t)
			}
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return sb.String(), nil
			}
			depth--
		}
	}
}

func findAttr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (p *opParser) attrStr(se xml.StartElement, name string) string {
	v, ok := findAttr(se, name)
	if !ok || v == "" {
		return ""
	}
	return p.strings.Insert(v)
}

func attrBool(se xml.StartElement, name string, def bool) (bool, error) {
	v, ok := findAttr(se, name)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return def, fmt.Errorf("%w: attribute %s has bad boolean %q",
			ErrInvalidArgument, name, v)
	}
	return b, nil
}

func attrUint64(se xml.StartElement, name string, def uint64) (uint64, error) {
	v, ok := findAttr(se, name)
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return def, fmt.Errorf("%w: attribute %s has bad value %q",
			ErrInvalidArgument, name, v)
	}
	return n, nil
}

func attrUint32(se xml.StartElement, name string, def uint32) (uint32, error) {
	v, ok := findAttr(se, name)
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 0, 32)
	if err != nil {
		return def, fmt.Errorf("%w: attribute %s overflows or has bad value %q",
			ErrInvalidArgument, name, v)
	}
	return uint32(n), nil
}

func attrUint16(se xml.StartElement, name string, def uint16) (uint16, error) {
	v, ok := findAttr(se, name)
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 0, 16)
	if err != nil {
		return def, fmt.Errorf("%w: attribute %s overflows or has bad value %q",
			ErrInvalidArgument, name, v)
	}
	return uint16(n), nil
}

// attrEnum resolves an enum-valued attribute, taking def when absent.
func attrEnum(se xml.StartElement, name string, kind ParserEnumKind, def uint32) (uint32, error) {
	v, _, err := attrEnumOpt(se, name, kind, def)
	return v, err
}

// attrEnumOpt additionally reports whether the attribute was present, for
// callers whose default depends on sibling attributes.
func attrEnumOpt(se xml.StartElement, name string, kind ParserEnumKind, def uint32) (uint32, bool, error) {
	v, ok := findAttr(se, name)
	if !ok {
		return def, false, nil
	}
	u, err := LookupEnum(kind, v)
	if err != nil {
		return def, true, fmt.Errorf("attribute %s: %w", name, err)
	}
	return u, true, nil
}
