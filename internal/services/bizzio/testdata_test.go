package bizzio

const articlesResponseXML = `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <GetArticlesResponse xmlns="http://tempuri.org/">
      <Articles xmlns:a="http://schemas.datacontract.org/2004/07/Bizzio.Srv.Extensions.RiznShop" xmlns:i="http://www.w3.org/2001/XMLSchema-instance">
        <a:AI>
          <a:Barcode>B123</a:Barcode>
          <a:Files>
            <a:FI><a:ID>img-1</a:ID><a:Name>front.JPG</a:Name><a:Uri>https://cdn.example.com/files/1</a:Uri></a:FI>
            <a:FI><a:ID>doc-1</a:ID><a:Name>manual.pdf</a:Name><a:Uri>https://cdn.example.com/manual.pdf</a:Uri></a:FI>
            <a:FI><a:ID>img-2</a:ID><a:Name></a:Name><a:Uri>https://cdn.example.com/img/back.webp?v=2</a:Uri></a:FI>
          </a:Files>
          <a:Name>Widget</a:Name>
          <a:P_Sale>12.50</a:P_Sale>
          <a:Props xmlns:b="http://schemas.microsoft.com/2003/10/Serialization/Arrays">
            <b:string>plain text</b:string>
            <b:string>&lt;p&gt;Nice widget&lt;/p&gt;</b:string>
            <b:string>&lt;p&gt;Second&lt;/p&gt;</b:string>
          </a:Props>
          <a:Qty>3.000</a:Qty>
          <a:SiteArticles>
            <a:SA><a:ID_SiteGroup>10</a:ID_SiteGroup></a:SA>
            <a:SA><a:ID_SiteGroup>11</a:ID_SiteGroup></a:SA>
          </a:SiteArticles>
          <a:SiteProps>
            <a:SP><a:Val>https://ext.example.com/widget.jpg</a:Val></a:SP>
            <a:SP><a:Val>blue</a:Val></a:SP>
          </a:SiteProps>
        </a:AI>
        <a:AI>
          <a:Barcode></a:Barcode>
          <a:Name>No barcode</a:Name>
          <a:P_Sale>oops</a:P_Sale>
          <a:Qty>0</a:Qty>
        </a:AI>
      </Articles>
      <ErrorCode>0</ErrorCode>
      <ErrorMessage/>
      <ErrorType>Success</ErrorType>
    </GetArticlesResponse>
  </s:Body>
</s:Envelope>`

const siteGroupsResponseXML = `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <GetSiteGroupsResponse xmlns="http://tempuri.org/">
      <ErrorCode>0</ErrorCode>
      <ErrorMessage/>
      <ErrorType>Success</ErrorType>
      <SiteGroups xmlns:a="http://schemas.datacontract.org/2004/07/Bizzio.Srv.Extensions.RiznShop">
        <a:SG>
          <a:Files>
            <a:FI><a:ID>c-1</a:ID><a:Name>tools.png</a:Name><a:Uri>https://cdn.example.com/tools.png</a:Uri></a:FI>
            <a:FI><a:ID>c-2</a:ID><a:Name>other.png</a:Name><a:Uri>https://cdn.example.com/other.png</a:Uri></a:FI>
          </a:Files>
          <a:ID>1</a:ID>
          <a:ID_Parent></a:ID_Parent>
          <a:Name>Tools</a:Name>
          <a:Note>&lt;p&gt;All tools&lt;/p&gt;</a:Note>
        </a:SG>
        <a:SG>
          <a:ID>2</a:ID>
          <a:ID_Parent>1</a:ID_Parent>
          <a:Name>Hammers</a:Name>
        </a:SG>
      </SiteGroups>
    </GetSiteGroupsResponse>
  </s:Body>
</s:Envelope>`

const apiErrorResponseXML = `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <GetSiteGroupsResponse xmlns="http://tempuri.org/">
      <ErrorCode>401</ErrorCode>
      <ErrorMessage>Invalid credentials</ErrorMessage>
      <ErrorType>Authentication</ErrorType>
    </GetSiteGroupsResponse>
  </s:Body>
</s:Envelope>`

const faultResponseXML = `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <s:Fault>
      <faultcode>s:Client</faultcode>
      <faultstring>The message could not be processed</faultstring>
    </s:Fault>
  </s:Body>
</s:Envelope>`
