package shaderop

import (
	"errors"
	"strings"
	"testing"
)

const computeDoc = `<ShaderOpSet>
  <ShaderOp Name="UAVAdd" CS="CSMain" DispatchX="4" DispatchY="2">
    <RootSignature>RootFlags(0), UAV(u0)</RootSignature>
    <Resource Name="UAVBuffer" Init="Zero" Width="1024" ReadBack="true"
              TransitionTo="UNORDERED_ACCESS" />
    <DescriptorHeap Name="ResHeap">
      <Descriptor Name="UAVBuffer" Kind="UAV" Flags="RAW" NumElements="256" />
    </DescriptorHeap>
    <RootValues>
      <RootValue HeapName="ResHeap" />
    </RootValues>
    <Shader Name="CSMain" Target="cs_6_0">
      @compute @workgroup_size(64)
      fn main() {}
    </Shader>
  </ShaderOp>
</ShaderOpSet>`

func mustParseSet(t *testing.T, doc string) *ShaderOpSet {
	t.Helper()
	set, err := ParseShaderOpSet(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseShaderOpSet() error: %v", err)
	}
	return set
}

func TestParseComputeShaderOp(t *testing.T) {
	set := mustParseSet(t, computeDoc)
	if len(set.ShaderOps) != 1 {
		t.Fatalf("parsed %d ops, want 1", len(set.ShaderOps))
	}
	op := set.ShaderOps[0]

	if op.Name != "UAVAdd" || op.CS != "CSMain" {
		t.Errorf("op Name/CS = %q/%q, want UAVAdd/CSMain", op.Name, op.CS)
	}
	if !op.IsCompute() {
		t.Error("IsCompute() = false for a CS op")
	}
	if op.DispatchX != 4 || op.DispatchY != 2 || op.DispatchZ != 1 {
		t.Errorf("dispatch = %d,%d,%d, want 4,2,1", op.DispatchX, op.DispatchY, op.DispatchZ)
	}
	if op.RootSignature != "RootFlags(0), UAV(u0)" {
		t.Errorf("RootSignature = %q", op.RootSignature)
	}

	res := op.GetResourceByName("UAVBuffer")
	if res == nil {
		t.Fatal("UAVBuffer resource missing")
	}
	if res.Init != InitZero || !res.ReadBack {
		t.Errorf("resource Init/ReadBack = %v/%v, want InitZero/true", res.Init, res.ReadBack)
	}
	if res.Desc.Width != 1024 {
		t.Errorf("resource Width = %d, want 1024", res.Desc.Width)
	}
	if res.TransitionTo != ResourceStateUnorderedAccess {
		t.Errorf("TransitionTo = %#x, want UNORDERED_ACCESS", res.TransitionTo)
	}

	sh := op.GetShaderByName("CSMain")
	if sh == nil {
		t.Fatal("CSMain shader missing")
	}
	if sh.EntryPoint != "main" {
		t.Errorf("EntryPoint = %q, want main default", sh.EntryPoint)
	}
	if !strings.Contains(sh.Text, "@workgroup_size(64)") {
		t.Errorf("shader text missing body: %q", sh.Text)
	}

	if len(op.RootValues) != 1 || op.RootValues[0].HeapName != "ResHeap" {
		t.Errorf("root values = %+v", op.RootValues)
	}
}

func TestParseBufferNormalization(t *testing.T) {
	// Buffers take fixed shape fields regardless of declared attributes.
	doc := `<ShaderOpSet><ShaderOp Name="T" CS="M">
	  <Resource Name="B" Width="64" Height="7" DepthOrArraySize="3"
	            MipLevels="5" Format="R32_FLOAT" SampleCount="4" />
	</ShaderOp></ShaderOpSet>`
	set := mustParseSet(t, doc)
	res := set.ShaderOps[0].GetResourceByName("B")
	if res == nil {
		t.Fatal("resource B missing")
	}
	d := &res.Desc
	if d.Dimension != ResourceDimensionBuffer {
		t.Errorf("Dimension = %v, want buffer default", d.Dimension)
	}
	if d.Height != 1 || d.DepthOrArraySize != 1 || d.MipLevels != 1 {
		t.Errorf("buffer shape = %d/%d/%d, want 1/1/1", d.Height, d.DepthOrArraySize, d.MipLevels)
	}
	if d.Format != FormatUnknown {
		t.Errorf("buffer Format = %v, want UNKNOWN", d.Format)
	}
	if d.SampleDesc != (SampleDesc{Count: 1}) {
		t.Errorf("buffer SampleDesc = %+v, want {1 0}", d.SampleDesc)
	}
	if d.Layout != TextureLayoutRowMajor {
		t.Errorf("buffer Layout = %v, want row major", d.Layout)
	}
}

func TestParseTextureDefaults(t *testing.T) {
	doc := `<ShaderOpSet><ShaderOp Name="T" CS="M">
	  <Resource Name="Tex" Dimension="TEXTURE2D" Width="8" Height="8"
	            Format="R32G32B32A32_FLOAT" />
	</ShaderOp></ShaderOpSet>`
	set := mustParseSet(t, doc)
	d := &set.ShaderOps[0].GetResourceByName("Tex").Desc
	if d.DepthOrArraySize != 1 || d.SampleDesc.Count != 1 {
		t.Errorf("texture defaults = %d/%d, want 1/1", d.DepthOrArraySize, d.SampleDesc.Count)
	}
}

func TestParseResourceInitBytes(t *testing.T) {
	doc := `<ShaderOpSet><ShaderOp Name="T" CS="M">
	  <Resource Name="B" Init="FromBytes">1 2 3</Resource>
	</ShaderOp></ShaderOpSet>`
	set := mustParseSet(t, doc)
	res := set.ShaderOps[0].GetResourceByName("B")
	if res.Init != InitFromBytes {
		t.Errorf("Init = %v, want InitFromBytes", res.Init)
	}
	if len(res.InitBytes) != 12 {
		t.Errorf("InitBytes length = %d, want 12", len(res.InitBytes))
	}
}

func TestParseDescriptorBackfill(t *testing.T) {
	doc := `<ShaderOpSet><ShaderOp Name="T" CS="M">
	  <DescriptorHeap Name="H">
	    <Descriptor Name="A" Kind="uav" Flags="raw" />
	    <Descriptor ResName="B" Kind="SRV" />
	  </DescriptorHeap>
	</ShaderOp></ShaderOpSet>`
	set := mustParseSet(t, doc)
	h := set.ShaderOps[0].GetDescriptorHeapByName("H")
	if h == nil || len(h.Descriptors) != 2 {
		t.Fatalf("heap H = %+v", h)
	}

	raw := &h.Descriptors[0]
	if raw.ResName != "A" {
		t.Errorf("ResName backfill = %q, want A", raw.ResName)
	}
	if raw.Kind != "UAV" {
		t.Errorf("Kind = %q, want canonical UAV", raw.Kind)
	}
	if raw.UAVDesc.Buffer.Flags&UAVBufferFlagRaw == 0 {
		t.Error("raw flag not set")
	}
	// Raw views with no declared format read as 32-bit typeless.
	if raw.UAVDesc.Format != FormatR32Typeless {
		t.Errorf("raw format = %v, want R32_TYPELESS", raw.UAVDesc.Format)
	}

	srv := &h.Descriptors[1]
	if srv.Name != "B" {
		t.Errorf("Name backfill = %q, want B", srv.Name)
	}
}

func TestParseDescriptorHeapFlagDefaults(t *testing.T) {
	doc := `<ShaderOpSet><ShaderOp Name="T" CS="M">
	  <DescriptorHeap Name="Res" />
	  <DescriptorHeap Name="Rtv" Type="RTV" />
	  <DescriptorHeap Name="RtvVisible" Type="RTV" Flags="SHADER_VISIBLE" />
	</ShaderOp></ShaderOpSet>`
	set := mustParseSet(t, doc)
	op := set.ShaderOps[0]

	if got := op.GetDescriptorHeapByName("Res").Flags; got != DescriptorHeapFlagShaderVisible {
		t.Errorf("default heap flags = %v, want shader visible", got)
	}
	if got := op.GetDescriptorHeapByName("Rtv").Flags; got != DescriptorHeapFlagNone {
		t.Errorf("RTV heap flags = %v, want none", got)
	}
	if got := op.GetDescriptorHeapByName("RtvVisible").Flags; got != DescriptorHeapFlagShaderVisible {
		t.Errorf("explicit RTV heap flags = %v, want shader visible", got)
	}
}

func TestParseShaderTextConflict(t *testing.T) {
	doc := `<ShaderOpSet><ShaderOp Name="T" CS="M">
	  <Shader Name="M" Target="cs_6_0" Text="fn main() {}">body too</Shader>
	</ShaderOp></ShaderOpSet>`
	_, err := ParseShaderOpSet(strings.NewReader(doc))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("conflicting shader text error = %v, want ErrInvalidArgument", err)
	}
}

func TestParseShaderTextAttribute(t *testing.T) {
	doc := `<ShaderOpSet><ShaderOp Name="T" CS="M">
	  <Shader Name="M" Target="cs_6_0" Text="fn main() {}" />
	</ShaderOp></ShaderOpSet>`
	set := mustParseSet(t, doc)
	sh := set.ShaderOps[0].GetShaderByName("M")
	if sh.Text != "fn main() {}" {
		t.Errorf("Text = %q, want attribute value", sh.Text)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no root element", `<Other/>`},
		{"op without name", `<ShaderOpSet><ShaderOp CS="M"/></ShaderOpSet>`},
		{"shader without name", `<ShaderOpSet><ShaderOp Name="T"><Shader Target="cs_6_0"/></ShaderOp></ShaderOpSet>`},
		{"resource without name", `<ShaderOpSet><ShaderOp Name="T"><Resource Width="4"/></ShaderOp></ShaderOpSet>`},
		{"bad init kind", `<ShaderOpSet><ShaderOp Name="T"><Resource Name="B" Init="magic"/></ShaderOp></ShaderOpSet>`},
		{"descriptor without kind", `<ShaderOpSet><ShaderOp Name="T"><DescriptorHeap Name="H"><Descriptor Name="A"/></DescriptorHeap></ShaderOp></ShaderOpSet>`},
		{"descriptor bad kind", `<ShaderOpSet><ShaderOp Name="T"><DescriptorHeap Name="H"><Descriptor Name="A" Kind="DSV"/></DescriptorHeap></ShaderOp></ShaderOpSet>`},
		{"bad enum value", `<ShaderOpSet><ShaderOp Name="T"><Resource Name="B" HeapType="MYSTERY"/></ShaderOp></ShaderOpSet>`},
		{"overflowing attr", `<ShaderOpSet><ShaderOp Name="T" DispatchX="5000000000"/></ShaderOpSet>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseShaderOpSet(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestParseUnknownElementsSkipped(t *testing.T) {
	doc := `<ShaderOpSet>
	  <Comment>ignored</Comment>
	  <ShaderOp Name="T" CS="M">
	    <Metadata><Nested/></Metadata>
	  </ShaderOp>
	</ShaderOpSet>`
	set := mustParseSet(t, doc)
	if len(set.ShaderOps) != 1 || set.ShaderOps[0].Name != "T" {
		t.Errorf("ops = %+v", set.ShaderOps)
	}
}

func TestParseShaderOpByName(t *testing.T) {
	op, err := ParseShaderOp(strings.NewReader(computeDoc), "uavadd")
	if err != nil {
		t.Fatalf("ParseShaderOp() error: %v", err)
	}
	if op.Name != "UAVAdd" {
		t.Errorf("op Name = %q, want UAVAdd", op.Name)
	}

	_, err = ParseShaderOp(strings.NewReader(computeDoc), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing op error = %v, want ErrNotFound", err)
	}
}

func TestParseStringInterning(t *testing.T) {
	doc := `<ShaderOpSet><ShaderOp Name="T" CS="CSMain">
	  <Resource Name="CSMain" Width="4"/>
	</ShaderOp></ShaderOpSet>`
	set := mustParseSet(t, doc)
	op := set.ShaderOps[0]
	// Equal attribute values intern to one canonical string.
	if op.Strings.Len() == 0 {
		t.Error("intern table empty after parse")
	}
	if op.CS != op.Resources[0].Name {
		t.Error("equal strings were not interned to the same value")
	}
}

func TestParseInputElements(t *testing.T) {
	doc := `<ShaderOpSet><ShaderOp Name="T" VS="VS" PS="PS">
	  <InputElements>
	    <InputElement SemanticName="POSITION" Format="R32G32B32_FLOAT" />
	    <InputElement SemanticName="COLOR" Format="R32G32B32A32_FLOAT" AlignedByteOffset="12" />
	  </InputElements>
	</ShaderOp></ShaderOpSet>`
	set := mustParseSet(t, doc)
	els := set.ShaderOps[0].InputElements
	if len(els) != 2 {
		t.Fatalf("parsed %d input elements, want 2", len(els))
	}
	if els[0].AlignedByteOffset != AlignedByteOffsetAppend {
		t.Errorf("default offset = %#x, want append sentinel", els[0].AlignedByteOffset)
	}
	if els[1].AlignedByteOffset != 12 {
		t.Errorf("explicit offset = %d, want 12", els[1].AlignedByteOffset)
	}
	if els[0].InputSlotClass != InputPerVertex {
		t.Errorf("slot class = %v, want per-vertex", els[0].InputSlotClass)
	}
}

func TestParseRenderTargets(t *testing.T) {
	doc := `<ShaderOpSet><ShaderOp Name="T" VS="VS" PS="PS">
	  <RenderTargets>
	    <RenderTarget Name="RTarget" />
	  </RenderTargets>
	</ShaderOp></ShaderOpSet>`
	set := mustParseSet(t, doc)
	rts := set.ShaderOps[0].RenderTargets
	if len(rts) != 1 || rts[0] != "RTarget" {
		t.Errorf("render targets = %v, want [RTarget]", rts)
	}
}
